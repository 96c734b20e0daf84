// Package usecase は登録銘柄の株価をバックグラウンドで取得して反映します。
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTimeout は1回の株価取得にかける最大時間です。
const DefaultTimeout = 10 * time.Second

// PriceFetcher は銘柄コードから表示用の株価文字列を取得します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PriceFetcher interface {
	FetchPrice(ctx context.Context, code string) (price string, ok bool)
}

// PriceSink は取得した株価を受け取ります。銘柄が既に削除されていれば何もしません。
type PriceSink interface {
	ApplyPrice(ctx context.Context, code, price string)
}

// Limiter は外部サイトへのアクセス頻度を制限します。
type Limiter interface {
	Wait(ctx context.Context) error
}

// Refresher は株価取得をリクエストから切り離して実行します。
// base がキャンセルされると実行中の取得は中断され、結果は破棄されます。
type Refresher struct {
	base    context.Context
	fetcher PriceFetcher
	sink    PriceSink
	limiter Limiter
	timeout time.Duration

	wg sync.WaitGroup
}

// NewRefresher は新しいRefresherを生成します。limiterはnilでも構いません。
func NewRefresher(base context.Context, fetcher PriceFetcher, sink PriceSink, limiter Limiter) *Refresher {
	return &Refresher{
		base:    base,
		fetcher: fetcher,
		sink:    sink,
		limiter: limiter,
		timeout: DefaultTimeout,
	}
}

// Refresh は株価取得を非同期で開始し、すぐに戻ります。
func (r *Refresher) Refresh(code string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.refresh(code)
	}()
}

// Wait は実行中の取得がすべて終わるまで待ちます。
func (r *Refresher) Wait() {
	r.wg.Wait()
}

func (r *Refresher) refresh(code string) {
	ctx, cancel := context.WithTimeout(r.base, r.timeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			slog.Warn("price refresh skipped", "code", code, "error", err)
			return
		}
	}

	price, ok := r.fetcher.FetchPrice(ctx, code)
	if !ok {
		return
	}
	if ctx.Err() != nil {
		// シャットダウン後に届いた結果は反映しない
		return
	}
	r.sink.ApplyPrice(ctx, code, price)
	slog.Debug("price refreshed", "code", code, "price", price)
}
