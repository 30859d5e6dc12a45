// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// checkTimeout は依存先1件あたりの確認時間の上限です。
const checkTimeout = 2 * time.Second

// Check は /healthz で確認する依存先（DB・Redis など）です。
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthResponse は /healthz のレスポンスボディです。
type HealthResponse struct {
	Status string            `json:"status"` // "ok" または "degraded"
	Checks map[string]string `json:"checks,omitempty"`
}

// NewHealth は依存先を順に確認する /healthz ハンドラーを返します。
// いずれかが失敗した場合は 503 を返します。checks が空なら常に 200 です。
func NewHealth(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		res := HealthResponse{Status: "ok"}
		if len(checks) > 0 {
			res.Checks = make(map[string]string, len(checks))
		}
		for _, chk := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			err := chk.Ping(ctx)
			cancel()
			if err != nil {
				res.Status = "degraded"
				res.Checks[chk.Name] = err.Error()
				continue
			}
			res.Checks[chk.Name] = "ok"
		}

		code := http.StatusOK
		if res.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		if c.Request.Method == http.MethodHead {
			c.Status(code)
			return
		}
		c.JSON(code, res)
	}
}
