package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stocklinker/internal/feature/catalog/domain/entity"
	"stocklinker/internal/feature/catalog/transport/http/dto"
)

// CatalogUsecase はマスターカタログ参照のインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CatalogUsecase interface {
	Search(query string, limit int) []entity.MasterSecurity
	FindByCode(code string) (entity.MasterSecurity, bool)
	Loaded() bool
	Version() string
	Count() int
}

// CatalogHandler はマスターカタログに関するHTTPリクエストを処理します。
type CatalogHandler struct {
	uc CatalogUsecase
}

// NewCatalogHandler は新しい CatalogHandler を作成します。
func NewCatalogHandler(uc CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Search は銘柄候補を検索するAPIです。
// q が2文字未満の場合は空の結果を返します。limit が数値でない場合は400を返します。
func (h *CatalogHandler) Search(c *gin.Context) {
	q := c.Query("q")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	found := h.uc.Search(q, limit)
	out := make([]dto.SecurityItem, 0, len(found))
	for _, s := range found {
		out = append(out, dto.FromEntity(s))
	}
	c.JSON(http.StatusOK, dto.SearchResponse{Query: q, Count: len(out), Results: out})
}

// Stats はカタログの読み込み状態を返すAPIです。
func (h *CatalogHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatsResponse{
		Loaded:  h.uc.Loaded(),
		Version: h.uc.Version(),
		Count:   h.uc.Count(),
	})
}

// FindByCode はコード完全一致で銘柄を返すAPIです。
func (h *CatalogHandler) FindByCode(c *gin.Context) {
	s, ok := h.uc.FindByCode(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "security not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}
