package dto

import "stocklinker/internal/feature/news/domain/entity"

// NewsItem はニュース見出しのレスポンスです。
type NewsItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	PubDate string `json:"pubDate"`
	Source  string `json:"source"`
}

// NewsResponse はニュース一覧のレスポンスです。
type NewsResponse struct {
	Kind  string     `json:"kind"`
	Count int        `json:"count"`
	Items []NewsItem `json:"items"`
}

// FromEntities はエンティティをレスポンスに変換します。
func FromEntities(kind entity.Kind, items []entity.NewsItem) NewsResponse {
	out := make([]NewsItem, 0, len(items))
	for _, it := range items {
		out = append(out, NewsItem{Title: it.Title, Link: it.Link, PubDate: it.PubDate, Source: it.Source})
	}
	return NewsResponse{Kind: string(kind), Count: len(out), Items: out}
}
