// Package kafka はライブティッカーの価格更新をKafkaへ送信するアダプターです。
package kafka

import (
	"os"
	"strings"
)

// DefaultTopic は価格更新を送信する既定のトピック名です。
const DefaultTopic = "live-quotes"

// Config はKafka送信の設定です。Brokers が空の場合は送信しません。
type Config struct {
	Brokers []string
	Topic   string
}

// Enabled は送信先のブローカーが設定されているかを返します。
func (c Config) Enabled() bool { return len(c.Brokers) > 0 }

// LoadConfig は環境変数 KAFKA_BROKERS（カンマ区切り）と KAFKA_TOPIC から設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{Topic: DefaultTopic}
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.Brokers = append(cfg.Brokers, b)
		}
	}
	if t := strings.TrimSpace(os.Getenv("KAFKA_TOPIC")); t != "" {
		cfg.Topic = t
	}
	return cfg
}
