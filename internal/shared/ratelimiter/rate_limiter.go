// Package ratelimiter は外部サイトへのアクセス頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter は一定期間あたりの呼び出し回数を制限します。複数のgoroutineから安全に使用できます。
type RateLimiter struct {
	limiter *rate.Limiter
	limit   int // interval あたりの上限
}

// NewRateLimiter は interval あたり limit 回まで通すRateLimiterを生成します。
// 上限までは待たずに通し、以降は interval/limit ごとに1回分回復します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit),
		limit:   limit,
	}
}

// Wait は枠が空くまで待機します。
// ctxが終了した場合、または期限までに枠が空かない場合はエラーを返し、枠は消費しません。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := rl.limiter.Wait(ctx); err != nil {
		slog.Debug("rate limit wait aborted", "limit", rl.limit, "error", err)
		return err
	}
	return nil
}
