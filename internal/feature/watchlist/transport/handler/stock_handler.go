// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklinker/internal/feature/watchlist/domain/entity"
	"stocklinker/internal/feature/watchlist/transport/http/dto"
	"stocklinker/internal/feature/watchlist/usecase"
)

// WatchlistUsecase は登録銘柄操作のユースケースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type WatchlistUsecase interface {
	Add(ctx context.Context, in usecase.NewStock) (entity.SavedStock, error)
	AddFromMaster(ctx context.Context, code string, groupID *string) (entity.SavedStock, error)
	Remove(ctx context.Context, code string) error
	Touch(ctx context.Context, code string) (entity.SavedStock, error)
	ToggleFavorite(ctx context.Context, code string) (entity.SavedStock, error)
	SetMemo(ctx context.Context, code, memo string) (entity.SavedStock, error)
	SetGroup(ctx context.Context, code string, groupID *string) (entity.SavedStock, error)
	Get(code string) (entity.SavedStock, error)
	Filter(groupID *string, query string) []entity.SavedStock
}

// StockHandler は登録銘柄に関するHTTPリクエストを処理します。
type StockHandler struct {
	uc WatchlistUsecase
}

// NewStockHandler は新しい StockHandler を作成します。
func NewStockHandler(uc WatchlistUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List は登録銘柄をグループと検索文字列で絞り込んで返すAPIです。
// groupId を省略した場合は全件が対象です。
func (h *StockHandler) List(c *gin.Context) {
	var groupID *string
	if g := c.Query("groupId"); g != "" {
		groupID = &g
	}
	stocks := h.uc.Filter(groupID, c.Query("q"))
	sum := usecase.Summarize(stocks)
	c.JSON(http.StatusOK, dto.StockListResponse{
		Count:         sum.Count,
		FavoriteCount: sum.FavoriteCount,
		Stocks:        dto.FromEntities(stocks),
	})
}

// Add は銘柄を登録するAPIです。
// - コード重複時は409を返却
// - コード・名称が空の場合は400を返却
// - マスターにない銘柄をfromMasterで登録しようとした場合は404を返却
// - 成功時は201を返却
func (h *StockHandler) Add(c *gin.Context) {
	var req dto.AddStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var (
		s   entity.SavedStock
		err error
	)
	if req.FromMaster {
		s, err = h.uc.AddFromMaster(c.Request.Context(), req.Code, req.GroupID)
	} else {
		s, err = h.uc.Add(c.Request.Context(), usecase.NewStock{
			Code:    req.Code,
			Name:    req.Name,
			Memo:    req.Memo,
			GroupID: req.GroupID,
		})
	}
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("stock registered", "code", s.Code, "name", s.Name)
	c.JSON(http.StatusCreated, dto.FromEntity(s))
}

// Get は登録銘柄を1件返すAPIです。
func (h *StockHandler) Get(c *gin.Context) {
	s, err := h.uc.Get(c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// Remove は登録銘柄を削除するAPIです。
func (h *StockHandler) Remove(c *gin.Context) {
	code := c.Param("code")
	if err := h.uc.Remove(c.Request.Context(), code); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("stock removed", "code", code)
	c.Status(http.StatusNoContent)
}

// Touch は銘柄を最近使ったものとして記録するAPIです。
func (h *StockHandler) Touch(c *gin.Context) {
	h.respond(c)(h.uc.Touch(c.Request.Context(), c.Param("code")))
}

// ToggleFavorite はお気に入りを切り替えるAPIです。
func (h *StockHandler) ToggleFavorite(c *gin.Context) {
	h.respond(c)(h.uc.ToggleFavorite(c.Request.Context(), c.Param("code")))
}

// SetMemo はメモを更新するAPIです。
func (h *StockHandler) SetMemo(c *gin.Context) {
	var req dto.MemoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respond(c)(h.uc.SetMemo(c.Request.Context(), c.Param("code"), req.Memo))
}

// SetGroup はグループを設定するAPIです。groupId が null の場合は未分類にします。
func (h *StockHandler) SetGroup(c *gin.Context) {
	var req dto.GroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respond(c)(h.uc.SetGroup(c.Request.Context(), c.Param("code"), req.GroupID))
}

func (h *StockHandler) respond(c *gin.Context) func(entity.SavedStock, error) {
	return func(s entity.SavedStock, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromEntity(s))
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("watchlist request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
