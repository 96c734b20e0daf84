// Package usecase resolves quick links to external information sites.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	catalogentity "stocklinker/internal/feature/catalog/domain/entity"
	"stocklinker/internal/feature/quicklink/domain/entity"
	watchentity "stocklinker/internal/feature/watchlist/domain/entity"
)

// searchKeywords はX検索で銘柄名に組み合わせるキーワードです。
const searchKeywords = "(株 OR 投資 OR 株価 OR #株 OR #投資 OR #日本株)"

// Toucher は登録銘柄の最終閲覧日時を更新します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type Toucher interface {
	Touch(ctx context.Context, code string) (watchentity.SavedStock, error)
}

// PriceRefresher はバックグラウンドの株価取得を開始します。
type PriceRefresher interface {
	Refresh(code string)
}

// NameLookup は銘柄コードから銘柄名を引きます。
type NameLookup interface {
	FindByCode(code string) (catalogentity.MasterSecurity, bool)
}

// LinksUsecase はサイト表から銘柄ごとのリンクを組み立てます。
type LinksUsecase struct {
	table     *entity.Table
	toucher   Toucher
	refresher PriceRefresher
	names     NameLookup
}

// NewLinksUsecase は新しいLinksUsecaseを生成します。
func NewLinksUsecase(table *entity.Table, toucher Toucher, refresher PriceRefresher, names NameLookup) *LinksUsecase {
	return &LinksUsecase{table: table, toucher: toucher, refresher: refresher, names: names}
}

// LinksFor は銘柄コードに対する全サイトのリンクをサイト表の順に返します。
func (u *LinksUsecase) LinksFor(code string) ([]entity.Link, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrValidation
	}

	query := u.searchQuery(code)
	out := make([]entity.Link, 0, len(u.table.Sites))
	for _, s := range u.table.Sites {
		out = append(out, entity.Link{Key: s.Key, Name: s.Name, URL: s.Expand(code, query), InApp: s.InApp})
	}
	return out, nil
}

// MarketLinks は市場全体のリンクを返します。
func (u *LinksUsecase) MarketLinks() []entity.Link {
	out := make([]entity.Link, 0, len(u.table.Market))
	for _, m := range u.table.Market {
		out = append(out, entity.Link{Key: m.Key, Name: m.Name, URL: m.URL})
	}
	return out
}

// Open は銘柄のリンクを開く操作です。
// 登録済みなら最終閲覧日時を更新し、株価の取得をバックグラウンドで開始してURLを返します。
// 株価の到着を待たずに戻ります。
func (u *LinksUsecase) Open(ctx context.Context, code, siteKey string) (entity.Link, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return entity.Link{}, ErrValidation
	}

	site, ok := u.site(siteKey)
	if !ok {
		return entity.Link{}, fmt.Errorf("%w: %q", ErrUnknownSite, siteKey)
	}

	// 未登録の銘柄でもリンクは開ける
	if _, err := u.toucher.Touch(ctx, code); err != nil {
		slog.Debug("open link for unsaved stock", "code", code, "error", err)
	}
	u.refresher.Refresh(code)

	return entity.Link{Key: site.Key, Name: site.Name, URL: site.Expand(code, u.searchQuery(code)), InApp: site.InApp}, nil
}

func (u *LinksUsecase) site(key string) (entity.Site, bool) {
	for _, s := range u.table.Sites {
		if s.Key == key {
			return s, true
		}
	}
	return entity.Site{}, false
}

// searchQuery は銘柄名とコードをOR検索し、日本語の本文投稿に絞る検索語を組み立てます。
func (u *LinksUsecase) searchQuery(code string) string {
	name := ""
	if u.names != nil {
		if s, ok := u.names.FindByCode(code); ok {
			name = s.Name
		}
	}

	target := code
	if name != "" {
		target = "(" + name + " OR " + code + ")"
	}
	return target + " " + searchKeywords + " lang:ja -filter:replies"
}
