// Package ratelimiter は提供元APIの呼び出し上限を守るための
// 固定ウィンドウ方式のレートリミッターを提供します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"
)

// RateLimiter はintervalごとにlimit回までの呼び出しを許可します。
// 単一ゴルーチンからの利用を想定しており、並行アクセスには対応しません。
type RateLimiter struct {
	limit    int
	interval time.Duration
	count    int
	windowAt time.Time

	// now と sleep はテストで差し替え可能にしています。
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait は現在のウィンドウの残量を1消費します。上限に達している場合は
// 次のウィンドウが開くまで待機し、待機中にctxが取り消されるとその
// エラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	now := rl.now()
	if rl.windowAt.IsZero() || now.Sub(rl.windowAt) >= rl.interval {
		rl.count = 0
		rl.windowAt = now
	}

	rl.count++
	if rl.count <= rl.limit {
		return nil
	}

	wait := rl.interval - now.Sub(rl.windowAt)
	if wait > 0 {
		slog.Info("rate limit reached, waiting for the next window", "limit", rl.limit, "wait", wait)
		if err := rl.sleep(ctx, wait); err != nil {
			return err
		}
	}
	rl.count = 1
	rl.windowAt = rl.now()
	return nil
}

// sleepContext はctxの取り消しに反応するtime.Sleep相当の待機です。
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
