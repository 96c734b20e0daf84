// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogStatus はマスターカタログの読み込み状態を返します。
type CatalogStatus interface {
	Loaded() bool
	Count() int
}

// NewHealth はサービスヘルスチェック用の /healthz ハンドラーを返します。
// カタログ未読み込みでもサービスは利用可能なため、常に200を返します。
func NewHealth(catalog CatalogStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"catalog": gin.H{
					"loaded": catalog.Loaded(),
					"count":  catalog.Count(),
				},
			})
		}
	}
}
