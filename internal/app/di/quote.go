package di

import (
	"context"
	"time"

	quoteadapters "stocklinker/internal/feature/quote/adapters"
	quoteusecase "stocklinker/internal/feature/quote/usecase"
	platformhttp "stocklinker/internal/platform/http"
	"stocklinker/internal/shared/ratelimiter"
)

// priceFetchTimeout はYahoo!ファイナンスへの1リクエストのタイムアウトです。
const priceFetchTimeout = 5 * time.Second

// NewRefresher creates a price refresher scraping Yahoo! Finance, limited to ratePerMinute fetches.
// base is cancelled on shutdown, which drops any fetch still in flight.
func NewRefresher(base context.Context, ratePerMinute int, sink quoteusecase.PriceSink) *quoteusecase.Refresher {
	client := platformhttp.NewHTTPClient(priceFetchTimeout, "")
	fetcher := quoteadapters.NewYahooFetcher(client, "")
	limiter := ratelimiter.NewRateLimiter(ratePerMinute, time.Minute)
	return quoteusecase.NewRefresher(base, fetcher, sink, limiter)
}
