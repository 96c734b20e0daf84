package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stocklinker/internal/feature/news/domain/entity"
	"stocklinker/internal/feature/news/transport/http/dto"
	"stocklinker/internal/feature/news/usecase"
)

// NewsUsecase はニュース取得のインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type NewsUsecase interface {
	Fetch(ctx context.Context, kind entity.Kind, limit int) []entity.NewsItem
}

// NewsHandler はニュースに関するHTTPリクエストを処理します。
type NewsHandler struct {
	uc NewsUsecase
}

// NewNewsHandler は新しい NewsHandler を作成します。
func NewNewsHandler(uc NewsUsecase) *NewsHandler {
	return &NewsHandler{uc: uc}
}

// List はフィード種別ごとの見出しを返すAPIです。
// 取得に失敗した場合も空のリストで200を返します。
func (h *NewsHandler) List(c *gin.Context) {
	kind, err := usecase.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	items := h.uc.Fetch(c.Request.Context(), kind, limit)
	c.JSON(http.StatusOK, dto.FromEntities(kind, items))
}
