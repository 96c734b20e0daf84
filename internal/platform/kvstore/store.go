// Package kvstore はキー単位で文字列を保存する設定ストアを提供します。
// 登録銘柄やグループの一覧はJSON文字列として1キーに保存されます。
package kvstore

import (
	"context"
	"sync"
)

// Store はキーと値の読み書きを行うストアです。
// Get は値が存在しない場合に ok=false を返します。
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore はプロセス内のみで値を保持するStore実装です。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore は空のMemoryStoreを生成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get は保存された値を返します。
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set は値を保存します。
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
