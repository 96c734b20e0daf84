// Package usecase implements the saved-stock registry: the user's bookmarked stocks,
// their memo/favorite/group tags, and the filtered views built on them.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	catalogentity "stocklinker/internal/feature/catalog/domain/entity"
	"stocklinker/internal/feature/search/matcher"
	"stocklinker/internal/feature/watchlist/domain/entity"
)

// StockStore persists the whole saved list.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type StockStore interface {
	// LoadStocks returns ok=false when nothing has been persisted yet.
	LoadStocks(ctx context.Context) (stocks []entity.SavedStock, ok bool, err error)
	SaveStocks(ctx context.Context, stocks []entity.SavedStock) error
}

// GroupGuard runs fn only while the group exists and cannot be deleted.
type GroupGuard interface {
	WithExisting(ctx context.Context, groupID string, fn func(ctx context.Context) error) error
}

// MasterLookup finds a security in the master catalog.
type MasterLookup interface {
	FindByCode(code string) (catalogentity.MasterSecurity, bool)
}

// Observer is notified after every successful mutation.
type Observer interface {
	OnChanged()
}

// NewStock is the input of Add.
type NewStock struct {
	Code    string
	Name    string
	Memo    string
	Sector  string
	Themes  []string
	GroupID *string
}

// Summary は一覧表示用の件数です。
type Summary struct {
	Count         int
	FavoriteCount int
}

// Registry holds the saved stocks in insertion order.
type Registry struct {
	store  StockStore
	groups GroupGuard
	master MasterLookup
	now    func() time.Time

	mu     sync.RWMutex
	stocks []entity.SavedStock
	// loadFailed は保存済みの値を読めなかったことを示します。上書きしないよう保存とデモ登録を止めます。
	loadFailed bool

	obsMu     sync.RWMutex
	observers []Observer
}

// NewRegistry creates an empty registry.
func NewRegistry(store StockStore, groups GroupGuard, master MasterLookup) *Registry {
	return &Registry{
		store:  store,
		groups: groups,
		master: master,
		now:    time.Now,
	}
}

// SetClock replaces the time source used for lastSearchedAt.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Subscribe registers an observer for change notifications.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Load は保存済みの銘柄一覧を読み込みます。
// 失敗時は空のまま続行しますが、保存済みの値を上書きしないよう以後の保存と SeedDemo は行いません。
func (r *Registry) Load(ctx context.Context) error {
	loaded, ok, err := r.store.LoadStocks(ctx)
	if err != nil {
		slog.Error("failed to load saved stocks", "error", err)
		r.mu.Lock()
		r.loadFailed = true
		r.mu.Unlock()
		return fmt.Errorf("load saved stocks: %w", err)
	}
	if !ok {
		r.mu.Lock()
		r.loadFailed = false
		r.mu.Unlock()
		return nil
	}

	// 重複コードは先勝ち
	seen := make(map[string]struct{}, len(loaded))
	stocks := make([]entity.SavedStock, 0, len(loaded))
	for _, s := range loaded {
		if _, dup := seen[s.Code]; dup {
			slog.Warn("dropping duplicate saved stock", "code", s.Code)
			continue
		}
		seen[s.Code] = struct{}{}
		stocks = append(stocks, s)
	}

	r.mu.Lock()
	r.stocks = stocks
	r.loadFailed = false
	r.mu.Unlock()
	return nil
}

// Add registers a new stock. Code and name are trimmed and must not be empty.
func (r *Registry) Add(ctx context.Context, in NewStock) (entity.SavedStock, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return entity.SavedStock{}, fmt.Errorf("%w: code and name are required", ErrValidation)
	}

	s := entity.SavedStock{
		Code:    code,
		Name:    name,
		Memo:    in.Memo,
		Sector:  in.Sector,
		Themes:  slices.Clone(in.Themes),
		GroupID: in.GroupID,
	}
	if s.Themes == nil {
		s.Themes = []string{}
	}

	if in.GroupID == nil {
		return r.insert(ctx, s)
	}

	var added entity.SavedStock
	err := r.guardGroup(ctx, *in.GroupID, func(ctx context.Context) error {
		var err error
		added, err = r.insert(ctx, s)
		return err
	})
	return added, err
}

// AddFromMaster registers the catalog entry with the given code, copying its name, sector and themes.
func (r *Registry) AddFromMaster(ctx context.Context, code string, groupID *string) (entity.SavedStock, error) {
	m, ok := r.master.FindByCode(strings.TrimSpace(code))
	if !ok {
		return entity.SavedStock{}, fmt.Errorf("%w: %s is not in the master catalog", ErrNotFound, code)
	}
	return r.Add(ctx, NewStock{
		Code:    m.Code,
		Name:    m.Name,
		Sector:  m.Sector,
		Themes:  m.Themes,
		GroupID: groupID,
	})
}

func (r *Registry) insert(ctx context.Context, s entity.SavedStock) (entity.SavedStock, error) {
	r.mu.Lock()
	if r.indexLocked(s.Code) >= 0 {
		r.mu.Unlock()
		return entity.SavedStock{}, fmt.Errorf("%w: %s", ErrDuplicateCode, s.Code)
	}
	s.LastSearchedAt = r.now()
	r.stocks = append(r.stocks, s)
	out := s.Clone()
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return out, nil
}

// Remove deletes the stock with the given code.
func (r *Registry) Remove(ctx context.Context, code string) error {
	r.mu.Lock()
	i := r.indexLocked(code)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	r.stocks = slices.Delete(r.stocks, i, i+1)
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return nil
}

// Touch marks the stock as just used, moving it up in the display order.
func (r *Registry) Touch(ctx context.Context, code string) (entity.SavedStock, error) {
	return r.update(ctx, code, func(s *entity.SavedStock) {
		s.LastSearchedAt = r.now()
	})
}

// ToggleFavorite flips the favorite flag.
func (r *Registry) ToggleFavorite(ctx context.Context, code string) (entity.SavedStock, error) {
	return r.update(ctx, code, func(s *entity.SavedStock) {
		s.IsFavorite = !s.IsFavorite
	})
}

// SetMemo replaces the memo text.
func (r *Registry) SetMemo(ctx context.Context, code, memo string) (entity.SavedStock, error) {
	return r.update(ctx, code, func(s *entity.SavedStock) {
		s.Memo = memo
	})
}

// SetGroup assigns the stock to a group, or clears the assignment when groupID is nil.
// The group must exist; it is held by the group registry until the assignment is stored.
func (r *Registry) SetGroup(ctx context.Context, code string, groupID *string) (entity.SavedStock, error) {
	if groupID == nil {
		return r.update(ctx, code, func(s *entity.SavedStock) { s.GroupID = nil })
	}

	id := *groupID
	var out entity.SavedStock
	err := r.guardGroup(ctx, id, func(ctx context.Context) error {
		var err error
		out, err = r.update(ctx, code, func(s *entity.SavedStock) { s.GroupID = &id })
		return err
	})
	return out, err
}

// SetLastViewedPrice stores the last fetched price string and marks the stock as
// recently used in the same update.
func (r *Registry) SetLastViewedPrice(ctx context.Context, code, price string) (entity.SavedStock, error) {
	return r.update(ctx, code, func(s *entity.SavedStock) {
		s.LastViewedPrice = &price
		s.LastSearchedAt = r.now()
	})
}

// ApplyPrice delivers a fetched price. The stock may have been removed while the
// fetch was in flight, in which case the price is dropped.
func (r *Registry) ApplyPrice(ctx context.Context, code, price string) {
	if _, err := r.SetLastViewedPrice(ctx, code, price); err != nil {
		if errors.Is(err, ErrNotFound) {
			slog.Debug("dropping price for unknown stock", "code", code)
			return
		}
		slog.Error("failed to apply price", "code", code, "error", err)
	}
}

// ReleaseGroup clears every reference to the group. It is registered as the group
// registry's before-delete hook and runs under the group write lock.
func (r *Registry) ReleaseGroup(ctx context.Context, groupID string) {
	r.mu.Lock()
	released := 0
	for i := range r.stocks {
		if r.stocks[i].InGroup(groupID) {
			r.stocks[i].GroupID = nil
			released++
		}
	}
	if released > 0 {
		r.persistLocked(ctx)
	}
	r.mu.Unlock()

	if released > 0 {
		slog.Info("released stocks from deleted group", "group_id", groupID, "count", released)
		r.notify()
	}
}

// Get returns the stock with the given code.
func (r *Registry) Get(code string) (entity.SavedStock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexLocked(code)
	if i < 0 {
		return entity.SavedStock{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return r.stocks[i].Clone(), nil
}

// List returns every saved stock in insertion order.
func (r *Registry) List() []entity.SavedStock {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.SavedStock, 0, len(r.stocks))
	for i := range r.stocks {
		out = append(out, r.stocks[i].Clone())
	}
	return out
}

// Filter returns the stocks in the group (nil means all) that match query,
// favorites first and then most recently used first.
func (r *Registry) Filter(groupID *string, query string) []entity.SavedStock {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return matcher.FilterSaved(r.stocks, groupID, matcher.NewQuery(query))
}

// Favorites returns the favorite stocks in display order.
func (r *Registry) Favorites() []entity.SavedStock {
	r.mu.RLock()
	out := make([]entity.SavedStock, 0)
	for i := range r.stocks {
		if r.stocks[i].IsFavorite {
			out = append(out, r.stocks[i].Clone())
		}
	}
	r.mu.RUnlock()

	matcher.SortForDisplay(out)
	return out
}

// Summarize counts the given stocks and how many of them are favorites.
func Summarize(stocks []entity.SavedStock) Summary {
	s := Summary{Count: len(stocks)}
	for i := range stocks {
		if stocks[i].IsFavorite {
			s.FavoriteCount++
		}
	}
	return s
}

// demoStocks はデモ表示用の初期データです。
var demoStocks = []entity.SavedStock{
	{Code: "3350", Name: "メタプラネット", Memo: "ビットコイン投資で注目", IsFavorite: true, GroupID: strPtr("watching"), Themes: []string{"ビットコイン", "仮想通貨"}},
	{Code: "1570", Name: "日経レバ", Memo: "日経平均2倍連動ETF", IsFavorite: true, GroupID: strPtr("holding"), Themes: []string{"ETF", "レバレッジ"}},
	{Code: "1357", Name: "日経ダブルインバース", Memo: "日経平均-2倍連動", GroupID: strPtr("watching"), Themes: []string{"ETF", "インバース"}},
	{Code: "7203", Name: "トヨタ自動車", GroupID: strPtr("holding"), Sector: "輸送用機器", Themes: []string{"自動車", "EV関連"}},
	{Code: "9984", Name: "ソフトバンクグループ", Sector: "情報・通信業", Themes: []string{"AI関連", "投資会社"}},
	{Code: "6920", Name: "レーザーテック", Memo: "半導体検査装置", GroupID: strPtr("watching"), Sector: "電気機器", Themes: []string{"半導体", "半導体製造装置"}},
	{Code: "8035", Name: "東京エレクトロン", Memo: "半導体製造装置", GroupID: strPtr("watching"), Sector: "電気機器", Themes: []string{"半導体", "半導体製造装置"}},
}

// SeedDemo は登録が空の場合にデモ用の銘柄を登録します。登録した場合 true を返します。
// 存在しないグループへの割り当ては外して登録します。
func (r *Registry) SeedDemo(ctx context.Context, groupExists func(id string) bool) bool {
	// グループ側のロックを先に取る順序を守るため、存在確認はロック外で済ませる
	seeds := make([]entity.SavedStock, 0, len(demoStocks))
	for _, d := range demoStocks {
		s := d.Clone()
		if s.GroupID != nil && !groupExists(*s.GroupID) {
			s.GroupID = nil
		}
		seeds = append(seeds, s)
	}

	r.mu.Lock()
	if r.loadFailed || len(r.stocks) > 0 {
		r.mu.Unlock()
		return false
	}
	now := r.now()
	for i := range seeds {
		seeds[i].LastSearchedAt = now
	}
	r.stocks = seeds
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return true
}

func (r *Registry) update(ctx context.Context, code string, mutate func(s *entity.SavedStock)) (entity.SavedStock, error) {
	r.mu.Lock()
	i := r.indexLocked(code)
	if i < 0 {
		r.mu.Unlock()
		return entity.SavedStock{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	mutate(&r.stocks[i])
	out := r.stocks[i].Clone()
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return out, nil
}

// guardGroup runs fn under the group guard and reports a missing group as ErrNotFound.
func (r *Registry) guardGroup(ctx context.Context, groupID string, fn func(ctx context.Context) error) error {
	ran := false
	err := r.groups.WithExisting(ctx, groupID, func(ctx context.Context) error {
		ran = true
		return fn(ctx)
	})
	if err != nil && !ran {
		return fmt.Errorf("%w: group %s: %w", ErrNotFound, groupID, err)
	}
	return err
}

func (r *Registry) indexLocked(code string) int {
	return slices.IndexFunc(r.stocks, func(s entity.SavedStock) bool { return s.Code == code })
}

// persistLocked must be called with r.mu held. Failures are logged only.
// Nothing is written while the stored list is unreadable.
func (r *Registry) persistLocked(ctx context.Context) {
	if r.loadFailed {
		slog.Warn("skipping saved stock persistence after failed load", "count", len(r.stocks))
		return
	}
	snapshot := make([]entity.SavedStock, 0, len(r.stocks))
	for i := range r.stocks {
		snapshot = append(snapshot, r.stocks[i].Clone())
	}
	if err := r.store.SaveStocks(ctx, snapshot); err != nil {
		slog.Error("failed to persist saved stocks", "error", err, "count", len(snapshot))
	}
}

func (r *Registry) notify() {
	r.obsMu.RLock()
	observers := slices.Clone(r.observers)
	r.obsMu.RUnlock()
	for _, o := range observers {
		o.OnChanged()
	}
}

func strPtr(s string) *string { return &s }
