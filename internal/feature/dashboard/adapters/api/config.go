// Package api はダッシュボードから株価チャートAPIを呼び出すHTTPクライアントです。
package api

import (
	"os"
	"strings"
	"time"
)

// DefaultBaseURL は API_URL が未設定の場合の接続先です。
const DefaultBaseURL = "https://stock-market-ju6c.onrender.com"

// Config はAPIクライアントの設定です。
type Config struct {
	BaseURL string        // APIのベースURL（末尾の "/" は取り除く）
	Timeout time.Duration // リクエスト全体のタイムアウト
}

// LoadConfig は環境変数 API_URL から設定を読み込みます。
func LoadConfig() Config {
	base := strings.TrimRight(strings.TrimSpace(os.Getenv("API_URL")), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{BaseURL: base, Timeout: 15 * time.Second}
}
