// Package adapters はwatchlistフィーチャーの永続化を提供します。
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stocklinker/internal/feature/watchlist/domain/entity"
	"stocklinker/internal/feature/watchlist/usecase"
	"stocklinker/internal/platform/kvstore"
)

// StockListKey は登録銘柄一覧を保存するキーです。
const StockListKey = "StockListV60"

// StockRecord is the persisted JSON form of a saved stock.
// lastSearchedAt is stored as epoch milliseconds.
type StockRecord struct {
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

// ToEntity converts the record to a domain entity, filling defaults for missing fields.
func (r StockRecord) ToEntity() entity.SavedStock {
	s := entity.SavedStock{
		Code:            r.Code,
		Name:            r.Name,
		Memo:            r.Memo,
		IsFavorite:      r.IsFavorite,
		Sector:          r.Sector,
		Themes:          r.Themes,
		GroupID:         r.GroupID,
		LastViewedPrice: r.LastViewedPrice,
	}
	if r.LastSearchedAt != 0 {
		s.LastSearchedAt = time.UnixMilli(r.LastSearchedAt)
	}
	if s.Themes == nil {
		s.Themes = []string{}
	}
	return s
}

// FromEntity converts a domain entity to its persisted form.
func FromEntity(s entity.SavedStock) StockRecord {
	r := StockRecord{
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
		r.LastSearchedAt = s.LastSearchedAt.UnixMilli()
	}
	if r.Themes == nil {
		r.Themes = []string{}
	}
	return r
}

// stockPrefs はStockStoreインターフェースのkvstore実装です。
type stockPrefs struct {
	kv kvstore.Store
}

var _ usecase.StockStore = (*stockPrefs)(nil)

// NewStockPrefs は指定ストアに銘柄一覧を保存するStockStoreを生成します。
func NewStockPrefs(kv kvstore.Store) *stockPrefs {
	return &stockPrefs{kv: kv}
}

// LoadStocks は保存済みの銘柄一覧を返します。
func (p *stockPrefs) LoadStocks(ctx context.Context) ([]entity.SavedStock, bool, error) {
	raw, ok, err := p.kv.Get(ctx, StockListKey)
	if err != nil || !ok {
		return nil, false, err
	}
	records, err := decodeStockList(raw)
	if err != nil {
		return nil, false, err
	}
	out := make([]entity.SavedStock, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToEntity())
	}
	return out, true, nil
}

// SaveStocks は銘柄一覧をJSON配列として保存します。
func (p *stockPrefs) SaveStocks(ctx context.Context, stocks []entity.SavedStock) error {
	records := make([]StockRecord, 0, len(stocks))
	for _, s := range stocks {
		records = append(records, FromEntity(s))
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, StockListKey, string(b))
}

// decodeStockList は保存形式のJSON配列をデコードします。
func decodeStockList(raw string) ([]StockRecord, error) {
	var records []StockRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StockListKey, err)
	}
	return records, nil
}
