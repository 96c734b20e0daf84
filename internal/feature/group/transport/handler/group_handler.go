// Package handler はgroupフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklinker/internal/feature/group/domain/entity"
	"stocklinker/internal/feature/group/domain/icon"
	"stocklinker/internal/feature/group/transport/http/dto"
	"stocklinker/internal/feature/group/usecase"
)

// GroupUsecase はグループ操作のユースケースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type GroupUsecase interface {
	List() []entity.Group
	Create(ctx context.Context, name, color, iconKey string) (entity.Group, error)
	Update(ctx context.Context, id string, p usecase.Patch) (entity.Group, error)
	Delete(ctx context.Context, id string) error
}

// GroupHandler はグループに関するHTTPリクエストを処理します。
type GroupHandler struct {
	uc GroupUsecase
}

// NewGroupHandler は新しい GroupHandler を作成します。
func NewGroupHandler(uc GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// List はグループ一覧を表示順で返すAPIです。
func (h *GroupHandler) List(c *gin.Context) {
	groups := h.uc.List()
	out := make([]dto.GroupItem, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.FromEntity(g))
	}
	c.JSON(http.StatusOK, out)
}

// Create はグループを作成するAPIです。
// - 名前が空の場合は400を返却
// - 成功時は201を返却
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	g, err := h.uc.Create(c.Request.Context(), req.Name, req.Color, req.Icon)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("group created", "id", g.ID, "name", g.Name)
	c.JSON(http.StatusCreated, dto.FromEntity(g))
}

// Update はグループ名・色・アイコンを部分更新するAPIです。
func (h *GroupHandler) Update(c *gin.Context) {
	var req dto.UpdateGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	g, err := h.uc.Update(c.Request.Context(), c.Param("id"), usecase.Patch{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(g))
}

// Delete はグループを削除するAPIです。所属していた銘柄は未分類になります。
func (h *GroupHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("group deleted", "id", id)
	c.Status(http.StatusNoContent)
}

// Icons はグループに設定できるアイコンの一覧を返すAPIです。
func (h *GroupHandler) Icons(c *gin.Context) {
	keys := icon.Selectable()
	out := make([]dto.IconItem, 0, len(keys))
	for _, k := range keys {
		out = append(out, dto.IconItem{Key: k, Name: icon.DisplayName(k)})
	}
	c.JSON(http.StatusOK, out)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		slog.Error("group request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
