// Package adapters はグループ一覧の永続化を提供します。
package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"stocklinker/internal/feature/group/domain/entity"
	"stocklinker/internal/feature/group/usecase"
	"stocklinker/internal/platform/kvstore"
)

// GroupListKey はグループ一覧を保存するキーです。
const GroupListKey = "GroupListV1"

// GroupRecord is the persisted JSON form of a group.
type GroupRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Order int    `json:"order"`
}

// ToEntity converts the record to a domain entity, filling defaults for missing fields.
func (r GroupRecord) ToEntity() entity.Group {
	g := entity.Group{ID: r.ID, Name: r.Name, Color: r.Color, Icon: r.Icon, Order: r.Order}
	if g.Color == "" {
		g.Color = entity.DefaultColor
	}
	if g.Icon == "" {
		g.Icon = entity.DefaultIcon
	}
	return g
}

// FromEntity converts a domain entity to its persisted form.
func FromEntity(g entity.Group) GroupRecord {
	return GroupRecord{ID: g.ID, Name: g.Name, Color: g.Color, Icon: g.Icon, Order: g.Order}
}

// groupPrefs はGroupStoreインターフェースのkvstore実装です。
type groupPrefs struct {
	kv kvstore.Store
}

var _ usecase.GroupStore = (*groupPrefs)(nil)

// NewGroupPrefs は指定ストアにグループ一覧を保存するGroupStoreを生成します。
func NewGroupPrefs(kv kvstore.Store) *groupPrefs {
	return &groupPrefs{kv: kv}
}

// LoadGroups は保存済みのグループ一覧を返します。
func (p *groupPrefs) LoadGroups(ctx context.Context) ([]entity.Group, bool, error) {
	raw, ok, err := p.kv.Get(ctx, GroupListKey)
	if err != nil || !ok {
		return nil, false, err
	}
	var records []GroupRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", GroupListKey, err)
	}
	out := make([]entity.Group, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToEntity())
	}
	return out, true, nil
}

// SaveGroups はグループ一覧をJSON配列として保存します。
func (p *groupPrefs) SaveGroups(ctx context.Context, groups []entity.Group) error {
	records := make([]GroupRecord, 0, len(groups))
	for _, g := range groups {
		records = append(records, FromEntity(g))
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, GroupListKey, string(b))
}
