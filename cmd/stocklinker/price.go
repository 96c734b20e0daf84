package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	quoteadapters "stocklinker/internal/feature/quote/adapters"
	platformhttp "stocklinker/internal/platform/http"
)

type priceCmd struct {
	baseURL string
	timeout time.Duration
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "fetch the current price of a stock once" }
func (*priceCmd) Usage() string {
	return `price [-timeout <duration>] <code>

  Scrapes the quote page once and prints the price, e.g. "¥2,500".
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.baseURL, "base-url", quoteadapters.DefaultBaseURL, "quote site base URL")
	f.DurationVar(&c.timeout, "timeout", 10*time.Second, "request timeout")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one stock code is required.")
		return subcommands.ExitUsageError
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fetcher := quoteadapters.NewYahooFetcher(platformhttp.NewHTTPClient(c.timeout, ""), c.baseURL)
	price, ok := fetcher.FetchPrice(ctx, f.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no price found for %s\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, price)
	return subcommands.ExitSuccess
}
