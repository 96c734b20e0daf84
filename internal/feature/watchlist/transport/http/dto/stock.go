// Package dto はwatchlistフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "stocklinker/internal/feature/watchlist/domain/entity"

// StockItem represents a saved stock in the API response.
// lastSearchedAt is epoch milliseconds, matching the persisted format.
type StockItem struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	Memo            string   `json:"memo"`
	IsFavorite      bool     `json:"isFavorite"`
	LastSearchedAt  int64    `json:"lastSearchedAt"`
	Sector          string   `json:"sector"`
	Themes          []string `json:"themes"`
	GroupID         *string  `json:"groupId"`
	LastViewedPrice *string  `json:"lastViewedPrice"`
}

// StockListResponse は GET /stocks のレスポンスです。
type StockListResponse struct {
	Count         int         `json:"count"`
	FavoriteCount int         `json:"favoriteCount"`
	Stocks        []StockItem `json:"stocks"`
}

// AddStockReq は POST /stocks のリクエストボディです。
// fromMaster が true の場合はマスターから名称・業種・テーマを取得し、name は無視します。
type AddStockReq struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name"`
	Memo       string  `json:"memo"`
	GroupID    *string `json:"groupId"`
	FromMaster bool    `json:"fromMaster"`
}

// MemoReq は PUT /stocks/:code/memo のリクエストボディです。
type MemoReq struct {
	Memo string `json:"memo"`
}

// GroupReq は PUT /stocks/:code/group のリクエストボディです。null で未分類に戻します。
type GroupReq struct {
	GroupID *string `json:"groupId"`
}

// FromEntity converts a saved stock to its API representation.
func FromEntity(s entity.SavedStock) StockItem {
	item := StockItem{
		Code:            s.Code,
		Name:            s.Name,
		Memo:            s.Memo,
		IsFavorite:      s.IsFavorite,
		Sector:          s.Sector,
		Themes:          s.Themes,
		GroupID:         s.GroupID,
		LastViewedPrice: s.LastViewedPrice,
	}
	if !s.LastSearchedAt.IsZero() {
		item.LastSearchedAt = s.LastSearchedAt.UnixMilli()
	}
	if item.Themes == nil {
		item.Themes = []string{}
	}
	return item
}

// FromEntities converts a list of saved stocks.
func FromEntities(stocks []entity.SavedStock) []StockItem {
	out := make([]StockItem, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, FromEntity(s))
	}
	return out
}
