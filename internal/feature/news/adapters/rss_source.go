// Package adapters はRSSフィードからニュースを取得します。
package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"stocklinker/internal/feature/news/domain/entity"
	"stocklinker/internal/feature/news/usecase"
)

const (
	// maxTitleRunes は見出しの最大文字数です。
	maxTitleRunes = 100
	// maxSourceRunes は配信元名の最大文字数です。
	maxSourceRunes = 20
	// pubDateRunes は日付文字列として残す文字数です。
	pubDateRunes = 16
	// maxFeedItems は1フィードから保持する最大件数です。
	maxFeedItems = 50

	// disclosureSource は適時開示フィードの配信元名です。
	disclosureSource = "株探"
)

// DefaultFeedURLs はフィード種別ごとの取得先です。
var DefaultFeedURLs = map[entity.Kind]string{
	entity.KindEconomic:   googleNewsURL("株式 経済 日経平均"),
	entity.KindDisclosure: "https://kabutan.jp/rss/news",
}

func googleNewsURL(query string) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("hl", "ja")
	v.Set("gl", "JP")
	v.Set("ceid", "JP:ja")
	return "https://news.google.com/rss/search?" + v.Encode()
}

// rssSource はFeedSourceインターフェースのgofeed実装です。
type rssSource struct {
	parser *gofeed.Parser
	urls   map[entity.Kind]string
}

var _ usecase.FeedSource = (*rssSource)(nil)

// NewRSSSource は新しいrssSourceを生成します。urlsがnilの場合はDefaultFeedURLsを使用します。
func NewRSSSource(client *http.Client, urls map[entity.Kind]string) *rssSource {
	if urls == nil {
		urls = DefaultFeedURLs
	}
	p := gofeed.NewParser()
	p.Client = client
	return &rssSource{parser: p, urls: urls}
}

// FetchFeed はフィードを取得して見出しに変換します。
func (s *rssSource) FetchFeed(ctx context.Context, kind entity.Kind) ([]entity.NewsItem, error) {
	feedURL, ok := s.urls[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", usecase.ErrUnknownKind, kind)
	}

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse %s feed: %w", kind, err)
	}

	items := make([]entity.NewsItem, 0, min(len(feed.Items), maxFeedItems))
	for _, it := range feed.Items {
		if len(items) == maxFeedItems {
			break
		}
		items = append(items, toNewsItem(it, kind))
	}
	return items, nil
}

func toNewsItem(it *gofeed.Item, kind entity.Kind) entity.NewsItem {
	source := disclosureSource
	if kind == entity.KindEconomic {
		source = SourceFromTitle(it.Title)
	}
	return entity.NewsItem{
		Title:   truncate(it.Title, maxTitleRunes),
		Link:    it.Link,
		PubDate: truncate(it.Published, pubDateRunes),
		Source:  source,
		Kind:    kind,
	}
}

// SourceFromTitle はGoogle Newsの見出し末尾 " - 配信元" から配信元名を取り出します。
func SourceFromTitle(title string) string {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return ""
	}
	return truncate(title[i+len(" - "):], maxSourceRunes)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
