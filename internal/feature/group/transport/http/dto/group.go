// Package dto はgroupフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"stocklinker/internal/feature/group/domain/entity"
	"stocklinker/internal/feature/group/domain/icon"
)

// GroupItem represents a group in the API response.
type GroupItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
	IconName string `json:"iconName"`
	Order    int    `json:"order"`
}

// IconItem is one selectable icon.
type IconItem struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// CreateGroupReq は POST /groups のリクエストボディです。
type CreateGroupReq struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// UpdateGroupReq は PATCH /groups/:id のリクエストボディです。省略したフィールドは変更しません。
type UpdateGroupReq struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// FromEntity converts a group to its API representation.
func FromEntity(g entity.Group) GroupItem {
	return GroupItem{
		ID:       g.ID,
		Name:     g.Name,
		Color:    g.Color,
		Icon:     g.Icon,
		IconName: icon.DisplayName(g.Icon),
		Order:    g.Order,
	}
}
