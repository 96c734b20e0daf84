package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cataloghandler "stocklinker/internal/feature/catalog/transport/handler"
	catalogusecase "stocklinker/internal/feature/catalog/usecase"
	groupadapters "stocklinker/internal/feature/group/adapters"
	grouphandler "stocklinker/internal/feature/group/transport/handler"
	groupusecase "stocklinker/internal/feature/group/usecase"
	newsadapters "stocklinker/internal/feature/news/adapters"
	newshandler "stocklinker/internal/feature/news/transport/handler"
	newsusecase "stocklinker/internal/feature/news/usecase"
	quickadapters "stocklinker/internal/feature/quicklink/adapters"
	quickentity "stocklinker/internal/feature/quicklink/domain/entity"
	quickhandler "stocklinker/internal/feature/quicklink/transport/handler"
	quickusecase "stocklinker/internal/feature/quicklink/usecase"
	quoteusecase "stocklinker/internal/feature/quote/usecase"
	watchadapters "stocklinker/internal/feature/watchlist/adapters"
	watchhandler "stocklinker/internal/feature/watchlist/transport/handler"
	watchusecase "stocklinker/internal/feature/watchlist/usecase"
	widgethandler "stocklinker/internal/feature/widget/transport/handler"
	widgetdto "stocklinker/internal/feature/widget/transport/http/dto"
	"stocklinker/internal/feature/widget/transport/ws"
	widgetusecase "stocklinker/internal/feature/widget/usecase"
	"stocklinker/internal/platform/cache"
	"stocklinker/internal/platform/config"
	platformhttp "stocklinker/internal/platform/http"
	"stocklinker/internal/platform/kvstore"
)

// newsFetchTimeout はRSSフィード取得のタイムアウトです。
const newsFetchTimeout = 10 * time.Second

// Handlers groups the HTTP handlers passed to the router.
type Handlers struct {
	Catalog *cataloghandler.CatalogHandler
	Stocks  *watchhandler.StockHandler
	Groups  *grouphandler.GroupHandler
	Links   *quickhandler.LinksHandler
	News    *newshandler.NewsHandler
	Widget  *widgethandler.WidgetHandler
}

// App is the fully wired application.
type App struct {
	Catalog   *catalogusecase.Catalog
	Groups    *groupusecase.Registry
	Stocks    *watchusecase.Registry
	Refresher *quoteusecase.Refresher
	Links     *quickusecase.LinksUsecase
	News      *newsusecase.NewsUsecase
	Widget    *widgetusecase.WidgetUsecase
	Hub       *ws.Hub
	Handlers  Handlers
}

// Build wires every component. The registries are loaded from the store before it returns;
// the master catalog is loaded later by Start so that startup is not blocked.
// base must stay alive for the lifetime of the application.
func Build(base context.Context, cfg config.Config, infra *Infra) (*App, error) {
	store, err := NewPreferenceStore(cfg, infra)
	if err != nil {
		return nil, err
	}
	master, err := NewMasterSource(cfg, infra)
	if err != nil {
		return nil, err
	}
	table, err := quickadapters.LoadTable(cfg.LinksYAMLPath)
	if err != nil {
		return nil, fmt.Errorf("load quick links: %w", err)
	}

	return assemble(base, cfg, infra, store, master, table), nil
}

func assemble(base context.Context, cfg config.Config, infra *Infra, store kvstore.Store,
	master catalogusecase.MasterSource, table *quickentity.Table) *App {
	catalog := catalogusecase.NewCatalog(master)

	groups := groupusecase.NewRegistry(groupadapters.NewGroupPrefs(store))
	if err := groups.Load(base); err != nil {
		slog.Warn("groups could not be read. Changes will not be saved until restart.", "error", err)
	}
	groups.SeedDefaults(base)

	stocks := watchusecase.NewRegistry(watchadapters.NewStockPrefs(store), groups, catalog)
	if err := stocks.Load(base); err != nil {
		slog.Warn("saved stocks could not be read. Changes will not be saved until restart.", "error", err)
	}
	// グループ削除時に所属銘柄を未分類へ戻す
	groups.OnBeforeDelete(stocks.ReleaseGroup)
	if cfg.SeedDemoData {
		stocks.SeedDemo(base, groups.Exists)
	}

	refresher := NewRefresher(base, cfg.PriceRateLimit, stocks)
	links := quickusecase.NewLinksUsecase(table, stocks, refresher, catalog)

	var feeds newsusecase.FeedSource = newsadapters.NewRSSSource(platformhttp.NewHTTPClient(newsFetchTimeout, ""), nil)
	feeds = cache.NewCachingFeedSource(infra.Redis, cfg.NewsCacheTTL, feeds, "news")
	news := newsusecase.NewNewsUsecase(feeds)

	widget := widgetusecase.NewWidgetUsecase(stocks, store)
	hub := ws.NewHub(func(ctx context.Context) any {
		return widgetdto.FromState(widget.State(ctx))
	})
	stocks.Subscribe(widget)
	widget.Subscribe(hub)

	return &App{
		Catalog:   catalog,
		Groups:    groups,
		Stocks:    stocks,
		Refresher: refresher,
		Links:     links,
		News:      news,
		Widget:    widget,
		Hub:       hub,
		Handlers: Handlers{
			Catalog: cataloghandler.NewCatalogHandler(catalog),
			Stocks:  watchhandler.NewStockHandler(stocks),
			Groups:  grouphandler.NewGroupHandler(groups),
			Links:   quickhandler.NewLinksHandler(links),
			News:    newshandler.NewNewsHandler(news),
			Widget:  widgethandler.NewWidgetHandler(widget, hub),
		},
	}
}

// Start はマスターカタログの読み込みとウィジェット配信をバックグラウンドで開始します。
func (a *App) Start(ctx context.Context) {
	go a.Catalog.Load(ctx)
	go a.Hub.Run(ctx)
}

// Wait は実行中の株価取得が終わるまで待ちます。Startに渡したctxをキャンセルした後に呼び出してください。
func (a *App) Wait() {
	a.Refresher.Wait()
}
