// Package entity defines the quick-link site table.
package entity

import (
	"net/url"
	"strings"
)

const (
	// CodePlaceholder は銘柄コードに置き換えられるURLテンプレート中の文字列です。
	CodePlaceholder = "{code}"
	// QueryPlaceholder は銘柄名とコードから組み立てた検索語に置き換えられます。
	QueryPlaceholder = "{query}"
)

// Site is an external information site that can be opened for a stock.
type Site struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	URLTemplate string `yaml:"url"`
	// InApp はアプリ内ブラウザで開くサイトかどうかです。
	InApp bool `yaml:"inApp"`
}

// MarketLink is a market-wide page that does not depend on a stock.
type MarketLink struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Table is the full set of quick-link destinations.
type Table struct {
	Sites  []Site       `yaml:"sites"`
	Market []MarketLink `yaml:"market"`
}

// Link is a resolved destination.
type Link struct {
	Key   string
	Name  string
	URL   string
	InApp bool
}

// Expand は銘柄コードと検索語をテンプレートに埋め込んだURLを返します。
func (s Site) Expand(code, query string) string {
	u := strings.ReplaceAll(s.URLTemplate, CodePlaceholder, code)
	return strings.ReplaceAll(u, QueryPlaceholder, url.QueryEscape(query))
}
