// Package usecase はニュースフィードの取得を提供します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stocklinker/internal/feature/news/domain/entity"
)

// DefaultLimit はlimit未指定時の取得件数です。
const DefaultLimit = 10

// FeedSource はフィード種別ごとに見出しを取得します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type FeedSource interface {
	FetchFeed(ctx context.Context, kind entity.Kind) ([]entity.NewsItem, error)
}

// NewsUsecase はニュース一覧の取得を行います。
type NewsUsecase struct {
	source FeedSource
}

// NewNewsUsecase は新しいNewsUsecaseを生成します。
func NewNewsUsecase(source FeedSource) *NewsUsecase {
	return &NewsUsecase{source: source}
}

// ParseKind は文字列をフィード種別に変換します。
func ParseKind(s string) (entity.Kind, error) {
	for _, k := range entity.Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Fetch は最大limit件の見出しを返します。
// 取得に失敗した場合はログに記録して空のリストを返します。
func (u *NewsUsecase) Fetch(ctx context.Context, kind entity.Kind, limit int) []entity.NewsItem {
	if limit <= 0 {
		limit = DefaultLimit
	}

	items, err := u.source.FetchFeed(ctx, kind)
	if err != nil {
		slog.Error("failed to fetch news", "kind", kind, "error", err)
		return []entity.NewsItem{}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []entity.NewsItem{}
	}
	return items
}
