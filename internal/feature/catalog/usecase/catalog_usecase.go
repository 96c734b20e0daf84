// Package usecase implements the master catalog: a read-only table of listed securities
// that is loaded once at startup and searched by the suggestion UI.
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"

	"stocklinker/internal/feature/catalog/domain/entity"
	"stocklinker/internal/feature/search/matcher"
)

const (
	// MinQueryLength は検索を実行する最小文字数です。1文字では候補が多すぎるため検索しません。
	MinQueryLength = 2

	// DefaultSearchLimit はlimit未指定時の最大件数です。
	DefaultSearchLimit = 20
)

// MasterSource abstracts where the bundled master list is read from.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MasterSource interface {
	LoadMaster(ctx context.Context) (*entity.MasterData, error)
}

// Catalog holds the master list in memory.
// Reads before Load completes see an empty catalog instead of blocking.
type Catalog struct {
	source MasterSource

	loadMu sync.Mutex

	mu         sync.RWMutex
	securities []entity.MasterSecurity
	byCode     map[string]int
	version    string
	loaded     bool

	ready     chan struct{}
	readyOnce sync.Once
}

// NewCatalog creates an empty catalog backed by the given source.
func NewCatalog(source MasterSource) *Catalog {
	return &Catalog{
		source: source,
		byCode: map[string]int{},
		ready:  make(chan struct{}),
	}
}

// Load reads the master list from the source. After a successful load further calls are no-ops.
// A read or parse failure leaves the catalog empty and is only logged; a later call may retry.
func (c *Catalog) Load(ctx context.Context) {
	defer c.readyOnce.Do(func() { close(c.ready) })

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if c.Loaded() {
		return
	}

	data, err := c.source.LoadMaster(ctx)
	if err != nil {
		slog.Error("failed to load master catalog", "error", err)
		return
	}
	if data == nil {
		slog.Error("failed to load master catalog", "error", "source returned no data")
		return
	}

	byCode := make(map[string]int, len(data.Stocks))
	for i, s := range data.Stocks {
		// 重複コードは先勝ち
		if _, ok := byCode[s.Code]; !ok {
			byCode[s.Code] = i
		}
	}

	c.mu.Lock()
	c.securities = data.Stocks
	c.byCode = byCode
	c.version = data.Version
	c.loaded = true
	c.mu.Unlock()

	slog.Info("master catalog loaded", "version", data.Version, "source", data.Source, "count", len(data.Stocks))
}

// Ready returns a channel that is closed once the first load attempt has finished,
// whether it succeeded or not.
func (c *Catalog) Ready() <-chan struct{} {
	return c.ready
}

// Loaded reports whether a load has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Version returns the version string of the loaded master document.
func (c *Catalog) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Count returns the number of securities in the catalog.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.securities)
}

// Search returns up to limit securities matching query, in catalog order.
// Queries shorter than MinQueryLength characters return an empty result.
// A non-positive limit falls back to DefaultSearchLimit.
func (c *Catalog) Search(query string, limit int) []entity.MasterSecurity {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []entity.MasterSecurity{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return matcher.SearchSecurities(c.securities, matcher.NewQuery(query), limit)
}

// FindByCode returns the security with the exact code.
func (c *Catalog) FindByCode(code string) (entity.MasterSecurity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byCode[code]
	if !ok {
		return entity.MasterSecurity{}, false
	}
	return c.securities[i], true
}
