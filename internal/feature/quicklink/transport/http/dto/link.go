package dto

import "stocklinker/internal/feature/quicklink/domain/entity"

// LinkItem はリンク先のレスポンスです。
type LinkItem struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	InApp bool   `json:"inApp"`
}

// LinksResponse は銘柄ごとのリンク一覧のレスポンスです。
type LinksResponse struct {
	Code  string     `json:"code,omitempty"`
	Links []LinkItem `json:"links"`
}

// FromEntity はエンティティをレスポンスに変換します。
func FromEntity(l entity.Link) LinkItem {
	return LinkItem{Key: l.Key, Name: l.Name, URL: l.URL, InApp: l.InApp}
}

// FromEntities は複数のエンティティをレスポンスに変換します。
func FromEntities(code string, links []entity.Link) LinksResponse {
	out := make([]LinkItem, 0, len(links))
	for _, l := range links {
		out = append(out, FromEntity(l))
	}
	return LinksResponse{Code: code, Links: out}
}
