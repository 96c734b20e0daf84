package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklinker/internal/feature/quicklink/domain/entity"
	"stocklinker/internal/feature/quicklink/transport/http/dto"
	"stocklinker/internal/feature/quicklink/usecase"
)

// LinksUsecase はクイックリンク解決のインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type LinksUsecase interface {
	LinksFor(code string) ([]entity.Link, error)
	MarketLinks() []entity.Link
	Open(ctx context.Context, code, siteKey string) (entity.Link, error)
}

// LinksHandler はクイックリンクに関するHTTPリクエストを処理します。
type LinksHandler struct {
	uc LinksUsecase
}

// NewLinksHandler は新しい LinksHandler を作成します。
func NewLinksHandler(uc LinksUsecase) *LinksHandler {
	return &LinksHandler{uc: uc}
}

// ForStock は銘柄ごとのリンク一覧を返すAPIです。
func (h *LinksHandler) ForStock(c *gin.Context) {
	code := c.Param("code")
	links, err := h.uc.LinksFor(code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(code, links))
}

// Market は市場全体のリンク一覧を返すAPIです。
func (h *LinksHandler) Market(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromEntities("", h.uc.MarketLinks()))
}

// Open はリンクを開く操作を受け付け、開くべきURLを返すAPIです。
// 株価の取得はバックグラウンドで行われ、レスポンスはその完了を待ちません。
func (h *LinksHandler) Open(c *gin.Context) {
	link, err := h.uc.Open(c.Request.Context(), c.Param("code"), c.Param("site"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(link))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrUnknownSite):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		slog.Error("quick link request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
