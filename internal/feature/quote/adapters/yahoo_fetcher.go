// Package adapters はYahoo!ファイナンスの銘柄ページから株価を取得します。
package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"stocklinker/internal/feature/quote/usecase"
)

// DefaultBaseURL はYahoo!ファイナンスのURLです。
const DefaultBaseURL = "https://finance.yahoo.co.jp"

// maxPageBytes は読み込むHTMLの上限です。
const maxPageBytes = 4 << 20

// pricePatterns はページ構造の変化に備えた株価の抽出パターンで、先頭から順に試します。
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`class="[^"]*StyledNumber[^"]*"[^>]*>([0-9,]+(?:\.[0-9]+)?)</`),
	regexp.MustCompile(`<span[^>]*>([0-9,]+(?:\.[0-9]+)?)</span>\s*<span[^>]*class="[^"]*change`),
	regexp.MustCompile(`現在値[^0-9]*([0-9,]+(?:\.[0-9]+)?)`),
}

// yahooFetcher はPriceFetcherインターフェースの実装です。
type yahooFetcher struct {
	client  *http.Client
	baseURL string
}

var _ usecase.PriceFetcher = (*yahooFetcher)(nil)

// NewYahooFetcher は新しいyahooFetcherを生成します。baseURLが空の場合はDefaultBaseURLを使用します。
func NewYahooFetcher(client *http.Client, baseURL string) *yahooFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &yahooFetcher{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// FetchPrice は東証の銘柄ページを取得して株価を "¥1,234" 形式で返します。
// 通信エラーや抽出失敗は ok=false として扱います。
func (f *yahooFetcher) FetchPrice(ctx context.Context, code string) (string, bool) {
	url := fmt.Sprintf("%s/quote/%s.T", f.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Warn("failed to fetch price page", "code", code, "error", err)
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("unexpected status from price page", "code", code, "status", resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		slog.Warn("failed to read price page", "code", code, "error", err)
		return "", false
	}
	return ExtractPrice(string(body))
}

// ExtractPrice はHTMLから株価を抽出します。
func ExtractPrice(html string) (string, bool) {
	for _, p := range pricePatterns {
		m := p.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err != nil {
			continue
		}
		return "¥" + m[1], true
	}
	return "", false
}
