// Package middleware はgin用の共通ミドルウェアを提供します。
package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout はリクエストのコンテキストに期限を設定します。
// 期限切れの応答はハンドラーが context.DeadlineExceeded を見て返します。
// ハンドラーは同じゴルーチンで実行されるため gin.Context を並行に触りません。
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
