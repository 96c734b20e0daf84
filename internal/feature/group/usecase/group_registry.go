// Package usecase implements the group registry: user-defined categories for saved stocks.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"stocklinker/internal/feature/group/domain/entity"
	"stocklinker/internal/feature/group/domain/icon"
)

// GroupStore persists the whole group list.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type GroupStore interface {
	// LoadGroups returns ok=false when nothing has been persisted yet.
	LoadGroups(ctx context.Context) (groups []entity.Group, ok bool, err error)
	SaveGroups(ctx context.Context, groups []entity.Group) error
}

// Observer is notified after every successful mutation.
type Observer interface {
	OnChanged()
}

// BeforeDeleteHook runs while the group registry holds its write lock,
// before the group is removed.
type BeforeDeleteHook func(ctx context.Context, groupID string)

// Patch は部分更新の内容です。nilのフィールドは変更しません。
type Patch struct {
	Name  *string
	Color *string
	Icon  *string
}

var colorPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

var defaultGroups = []entity.Group{
	{ID: "watching", Name: "監視中", Color: "#4FC3F7", Icon: "watching", Order: 0},
	{ID: "holding", Name: "保有中", Color: "#81C784", Icon: "holding", Order: 1},
	{ID: "considering", Name: "検討中", Color: "#FFB74D", Icon: "considering", Order: 2},
	{ID: "sold", Name: "売却済", Color: "#9E9E9E", Icon: "sold", Order: 3},
}

// Registry holds the user's groups.
type Registry struct {
	store GroupStore
	newID func() string

	mu     sync.RWMutex
	groups []entity.Group
	hooks  []BeforeDeleteHook
	// loadFailed は保存済みの値を読めなかったことを示します。上書きしないよう保存と初期化を止めます。
	loadFailed bool

	obsMu     sync.RWMutex
	observers []Observer
}

// NewRegistry creates an empty registry persisted through store.
func NewRegistry(store GroupStore) *Registry {
	return &Registry{
		store: store,
		newID: uuid.NewString,
	}
}

// OnBeforeDelete registers a hook that runs on every Delete before removal.
func (r *Registry) OnBeforeDelete(hook BeforeDeleteHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// Subscribe registers an observer for change notifications.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Load は保存済みのグループを読み込みます。
// 旧バージョンの絵文字アイコンはキーに変換し、変換があれば保存し直します。
// 読み込みに失敗した場合は空のまま続行しますが、保存済みの値を上書きしないよう
// 以後の保存と SeedDefaults は行いません。
func (r *Registry) Load(ctx context.Context) error {
	loaded, ok, err := r.store.LoadGroups(ctx)
	if err != nil {
		slog.Error("failed to load groups", "error", err)
		r.mu.Lock()
		r.loadFailed = true
		r.mu.Unlock()
		return fmt.Errorf("load groups: %w", err)
	}

	r.mu.Lock()
	r.loadFailed = false
	if !ok {
		r.mu.Unlock()
		return nil
	}
	migrated, changed := icon.MigrateIcons(loaded)
	r.groups = migrated
	if changed {
		slog.Info("migrated legacy group icons")
		r.persistLocked(ctx)
	}
	r.mu.Unlock()
	return nil
}

// SeedDefaults は登録が空の場合に既定の4グループを作成します。作成した場合 true を返します。
// 読み込みに失敗している場合は作成しません。
func (r *Registry) SeedDefaults(ctx context.Context) bool {
	r.mu.Lock()
	if r.loadFailed || len(r.groups) > 0 {
		r.mu.Unlock()
		return false
	}
	r.groups = slices.Clone(defaultGroups)
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return true
}

// Create adds a group at the end of the order.
// An empty color uses entity.DefaultColor and an empty icon uses entity.DefaultIcon.
func (r *Registry) Create(ctx context.Context, name, color, iconKey string) (entity.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Group{}, fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if color == "" {
		color = entity.DefaultColor
	}
	if !colorPattern.MatchString(color) {
		return entity.Group{}, fmt.Errorf("%w: color %q", ErrValidation, color)
	}
	if iconKey == "" {
		iconKey = entity.DefaultIcon
	}

	r.mu.Lock()
	g := entity.Group{
		ID:    r.newID(),
		Name:  name,
		Color: color,
		Icon:  icon.Resolve(iconKey),
		Order: len(r.groups),
	}
	r.groups = append(r.groups, g)
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return g, nil
}

// Update applies a partial change to the group.
func (r *Registry) Update(ctx context.Context, id string, p Patch) (entity.Group, error) {
	var name string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return entity.Group{}, fmt.Errorf("%w: name is empty", ErrValidation)
		}
	}
	if p.Color != nil && !colorPattern.MatchString(*p.Color) {
		return entity.Group{}, fmt.Errorf("%w: color %q", ErrValidation, *p.Color)
	}

	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return entity.Group{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	g := &r.groups[i]
	if p.Name != nil {
		g.Name = name
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	if p.Icon != nil {
		g.Icon = icon.Resolve(*p.Icon)
	}
	updated := *g
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return updated, nil
}

// Rename changes the group name.
func (r *Registry) Rename(ctx context.Context, id, name string) error {
	_, err := r.Update(ctx, id, Patch{Name: &name})
	return err
}

// Recolor changes the group color.
func (r *Registry) Recolor(ctx context.Context, id, color string) error {
	_, err := r.Update(ctx, id, Patch{Color: &color})
	return err
}

// Reicon changes the group icon. Legacy emoji and unknown values are resolved to a key.
func (r *Registry) Reicon(ctx context.Context, id, iconKey string) error {
	_, err := r.Update(ctx, id, Patch{Icon: &iconKey})
	return err
}

// Delete removes the group. Before-delete hooks run first under the same write lock,
// so no saved stock can be assigned to the group while it is being removed.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for _, hook := range r.hooks {
		hook(ctx, id)
	}
	r.groups = slices.Delete(r.groups, i, i+1)
	r.persistLocked(ctx)
	r.mu.Unlock()

	r.notify()
	return nil
}

// List returns the groups sorted by order. Groups with equal order keep insertion order.
func (r *Registry) List() []entity.Group {
	r.mu.RLock()
	out := slices.Clone(r.groups)
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b entity.Group) int { return a.Order - b.Order })
	if out == nil {
		out = []entity.Group{}
	}
	return out
}

// Get returns the group with the given id.
func (r *Registry) Get(id string) (entity.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexLocked(id)
	if i < 0 {
		return entity.Group{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.groups[i], nil
}

// Exists reports whether a group with the given id exists.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexLocked(id) >= 0
}

// WithExisting runs fn while holding the read lock, only if the group exists.
// A concurrent Delete waits until fn returns.
func (r *Registry) WithExisting(ctx context.Context, id string, fn func(ctx context.Context) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fn(ctx)
}

func (r *Registry) indexLocked(id string) int {
	return slices.IndexFunc(r.groups, func(g entity.Group) bool { return g.ID == id })
}

// persistLocked must be called with r.mu held. Failures are logged only.
// Nothing is written while the stored list is unreadable.
func (r *Registry) persistLocked(ctx context.Context) {
	if r.loadFailed {
		slog.Warn("skipping group persistence after failed load", "count", len(r.groups))
		return
	}
	if err := r.store.SaveGroups(ctx, slices.Clone(r.groups)); err != nil {
		slog.Error("failed to persist groups", "error", err, "count", len(r.groups))
	}
}

func (r *Registry) notify() {
	r.obsMu.RLock()
	observers := slices.Clone(r.observers)
	r.obsMu.RUnlock()
	for _, o := range observers {
		o.OnChanged()
	}
}
