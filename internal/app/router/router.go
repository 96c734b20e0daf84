// Package router はHTTPルーティングを定義します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stocklinker/internal/app/di"
	"stocklinker/internal/platform/http/handler"
	jwtmw "stocklinker/internal/platform/jwt"
)

// Options configures cross-cutting middleware.
type Options struct {
	// TokenSecret が空の場合、APIは認証なしで公開されます。
	TokenSecret string
	// CORSAllowOrigins が空の場合、CORSヘッダーは付与しません。
	CORSAllowOrigins []string
	// Catalog は /healthz で読み込み状態を返すために使用します。
	Catalog handler.CatalogStatus
}

func NewRouter(h di.Handlers, opts Options) *gin.Engine {
	r := gin.Default()

	if len(opts.CORSAllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	health := handler.NewHealth(opts.Catalog)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// API_TOKEN_SECRET が設定されている場合のみトークンが必要
	api := r.Group("/")
	api.Use(jwtmw.DeviceTokenRequired(opts.TokenSecret))
	{
		// マスターカタログ
		api.GET("/master/search", h.Catalog.Search)
		api.GET("/master/stats", h.Catalog.Stats)
		api.GET("/master/:code", h.Catalog.FindByCode)

		// 登録銘柄
		api.GET("/stocks", h.Stocks.List)
		api.POST("/stocks", h.Stocks.Add)
		api.GET("/stocks/:code", h.Stocks.Get)
		api.DELETE("/stocks/:code", h.Stocks.Remove)
		api.POST("/stocks/:code/touch", h.Stocks.Touch)
		api.POST("/stocks/:code/favorite", h.Stocks.ToggleFavorite)
		api.PUT("/stocks/:code/memo", h.Stocks.SetMemo)
		api.PUT("/stocks/:code/group", h.Stocks.SetGroup)

		// クイックリンク
		api.GET("/stocks/:code/links", h.Links.ForStock)
		api.POST("/stocks/:code/open/:site", h.Links.Open)
		api.GET("/links/market", h.Links.Market)

		// グループ
		api.GET("/groups", h.Groups.List)
		api.POST("/groups", h.Groups.Create)
		api.PATCH("/groups/:id", h.Groups.Update)
		api.DELETE("/groups/:id", h.Groups.Delete)
		api.GET("/icons", h.Groups.Icons)

		// ニュース
		api.GET("/news/:kind", h.News.List)

		// ウィジェット
		api.GET("/widget/favorites", h.Widget.Favorites)
		api.PUT("/widget/selected", h.Widget.Select)
		api.GET("/widget/stream", h.Widget.Stream)
	}

	return r
}
