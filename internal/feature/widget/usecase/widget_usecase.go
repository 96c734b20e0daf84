// Package usecase provides the home-screen widget view: favorite stocks and the selected one.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	watchentity "stocklinker/internal/feature/watchlist/domain/entity"
)

// SelectedCodeKey は選択中の銘柄コードを保存するキーです。
const SelectedCodeKey = "widget_selected_code"

// FavoritesSource はお気に入り銘柄を表示順で返します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type FavoritesSource interface {
	Favorites() []watchentity.SavedStock
}

// SelectionStore は選択中の銘柄コードを永続化します。
type SelectionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Observer はウィジェットの表示内容が変わったことを受け取ります。
type Observer interface {
	OnChanged()
}

// State is what the widget renders.
type State struct {
	Favorites []watchentity.SavedStock
	// Selected は保存された選択コード、なければ先頭のお気に入りのコードです。どちらもなければ空です。
	Selected string
}

// WidgetUsecase はウィジェットの状態を組み立てます。
type WidgetUsecase struct {
	favorites FavoritesSource
	store     SelectionStore

	mu        sync.RWMutex
	observers []Observer
}

// NewWidgetUsecase は新しいWidgetUsecaseを生成します。
func NewWidgetUsecase(favorites FavoritesSource, store SelectionStore) *WidgetUsecase {
	return &WidgetUsecase{favorites: favorites, store: store}
}

// Subscribe は選択変更の通知先を登録します。
func (u *WidgetUsecase) Subscribe(o Observer) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.observers = append(u.observers, o)
}

// State は現在のウィジェット状態を返します。
// 選択コードの読み込みに失敗した場合は未選択として扱います。
func (u *WidgetUsecase) State(ctx context.Context) State {
	favs := u.favorites.Favorites()

	selected, ok, err := u.store.Get(ctx, SelectedCodeKey)
	if err != nil {
		slog.Warn("failed to read widget selection", "error", err)
		ok = false
	}
	if !ok || selected == "" {
		selected = ""
		if len(favs) > 0 {
			selected = favs[0].Code
		}
	}
	return State{Favorites: favs, Selected: selected}
}

// Select は選択中の銘柄コードを保存します。お気に入りでないコードも保存できます。
func (u *WidgetUsecase) Select(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrValidation
	}
	if err := u.store.Set(ctx, SelectedCodeKey, code); err != nil {
		return fmt.Errorf("save widget selection: %w", err)
	}
	u.OnChanged()
	return nil
}

// OnChanged は登録銘柄の変更を購読者へ中継します。
func (u *WidgetUsecase) OnChanged() {
	u.mu.RLock()
	obs := append([]Observer(nil), u.observers...)
	u.mu.RUnlock()

	for _, o := range obs {
		o.OnChanged()
	}
}
