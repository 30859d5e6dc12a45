// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。
// interval あたり limit 回までを即時に通し、それを超えた分は均等な間隔で通します。
// 待機はロックの外で行われるため、各呼び出し元は自分の ctx で待機を打ち切れます。
type RateLimiter struct {
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位で補充するか
	lim      *rate.Limiter
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		lim:      rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit),
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 待機中に ctx がキャンセルされた場合は予約を取り消して ctx.Err() を返します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := rl.lim.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	slog.Warn("rate limit hit", "limit", rl.limit, "interval", rl.interval, "sleep", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
