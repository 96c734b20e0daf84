package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklinker/internal/feature/widget/transport/http/dto"
	"stocklinker/internal/feature/widget/usecase"
)

// WidgetUsecase はウィジェット状態のインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type WidgetUsecase interface {
	State(ctx context.Context) usecase.State
	Select(ctx context.Context, code string) error
}

// StreamServer はWebSocket接続を受け付けます。
type StreamServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// WidgetHandler はウィジェットに関するHTTPリクエストを処理します。
type WidgetHandler struct {
	uc     WidgetUsecase
	stream StreamServer
}

// NewWidgetHandler は新しい WidgetHandler を作成します。
func NewWidgetHandler(uc WidgetUsecase, stream StreamServer) *WidgetHandler {
	return &WidgetHandler{uc: uc, stream: stream}
}

// Favorites はお気に入り銘柄と選択中の銘柄を返すAPIです。
func (h *WidgetHandler) Favorites(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromState(h.uc.State(c.Request.Context())))
}

// Select は選択中の銘柄を変更するAPIです。
func (h *WidgetHandler) Select(c *gin.Context) {
	var req dto.SelectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.uc.Select(c.Request.Context(), req.Code); err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("failed to select widget stock", "code", req.Code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.FromState(h.uc.State(c.Request.Context())))
}

// Stream はウィジェット状態の変更をWebSocketで配信します。
func (h *WidgetHandler) Stream(c *gin.Context) {
	h.stream.ServeWS(c.Writer, c.Request)
}
