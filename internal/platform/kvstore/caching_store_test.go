package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore はテスト用のStoreモック実装です。
type mockStore struct {
	getFn func(ctx context.Context, key string) (string, bool, error)
	setFn func(ctx context.Context, key, value string) error
}

// Get はモックのGet関数を呼び出します。
func (m *mockStore) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return "", false, nil
}

// Set はモックのSet関数を呼び出します。
func (m *mockStore) Set(ctx context.Context, key, value string) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

// TestNewCachingStore_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingStore_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 10 * time.Minute, "prefs"},
		{"negative ttl uses default", -time.Minute, "", 10 * time.Minute, "prefs"},
		{"custom values preserved", time.Minute, "custom", time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewCachingStore(nil, tt.ttl, &mockStore{}, tt.namespace)

			assert.Equal(t, tt.expectedTTL, s.ttl)
			assert.Equal(t, tt.expectedNamespace, s.namespace)
		})
	}
}

// TestCachingStore_Get_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingStore_Get_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockStore{
		getFn: func(ctx context.Context, key string) (string, bool, error) { return "[]", true, nil },
	}
	s := NewCachingStore(nil, time.Minute, inner, "prefs")

	v, ok, err := s.Get(context.Background(), "GroupListV1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

// TestCachingStore_Get_CacheHit はキャッシュヒット時に内部ストアを呼ばないことを検証します。
func TestCachingStore_Get_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("prefs:StockListV60").SetVal(`[{"code":"7203"}]`)

	innerCalled := false
	inner := &mockStore{
		getFn: func(ctx context.Context, key string) (string, bool, error) {
			innerCalled = true
			return "", false, nil
		},
	}

	s := NewCachingStore(rdb, time.Minute, inner, "prefs")
	v, ok, err := s.Get(context.Background(), "StockListV60")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"code":"7203"}]`, v)
	assert.False(t, innerCalled, "inner store should not be called on cache hit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingStore_Get_CacheMiss はキャッシュミス時に内部ストアから取得してキャッシュに保存することを検証します。
func TestCachingStore_Get_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("prefs:StockListV60").RedisNil()
	mock.ExpectSetNX("prefs:StockListV60", "[]", time.Minute).SetVal(true)

	inner := &mockStore{
		getFn: func(ctx context.Context, key string) (string, bool, error) { return "[]", true, nil },
	}

	s := NewCachingStore(rdb, time.Minute, inner, "prefs")
	v, ok, err := s.Get(context.Background(), "StockListV60")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingStore_Get_MissingValueCached は未保存キーが目印付きでキャッシュされ、次回はok=falseで返ることを検証します。
func TestCachingStore_Get_MissingValueCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("prefs:widget_selected_code").RedisNil()
	mock.ExpectSetNX("prefs:widget_selected_code", cacheMissMarker, time.Minute).SetVal(true)
	mock.ExpectGet("prefs:widget_selected_code").SetVal(cacheMissMarker)

	calls := 0
	inner := &mockStore{
		getFn: func(ctx context.Context, key string) (string, bool, error) {
			calls++
			return "", false, nil
		},
	}

	s := NewCachingStore(rdb, time.Minute, inner, "prefs")
	for range 2 {
		_, ok, err := s.Get(context.Background(), "widget_selected_code")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingStore_Get_InnerError は内部ストアのエラーが伝播され、キャッシュされないことを検証します。
func TestCachingStore_Get_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("prefs:StockListV60").RedisNil()

	inner := &mockStore{
		getFn: func(ctx context.Context, key string) (string, bool, error) { return "", false, expectedErr },
	}

	s := NewCachingStore(rdb, time.Minute, inner, "prefs")
	_, _, err := s.Get(context.Background(), "StockListV60")

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingStore_Set_WritesThrough は書き込み後に新しい値がキャッシュに書き込まれることを検証します。
func TestCachingStore_Set_WritesThrough(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectSet("prefs:GroupListV1", "[]", time.Minute).SetVal("OK")

	var written string
	inner := &mockStore{
		setFn: func(ctx context.Context, key, value string) error {
			written = value
			return nil
		},
	}

	s := NewCachingStore(rdb, time.Minute, inner, "prefs")
	require.NoError(t, s.Set(context.Background(), "GroupListV1", "[]"))

	assert.Equal(t, "[]", written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingStore_Set_CacheWriteFailure はキャッシュへの書き込み失敗時にキャッシュを削除することを検証します。
func TestCachingStore_Set_CacheWriteFailure(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectSet("prefs:GroupListV1", "[]", time.Minute).SetErr(errors.New("OOM"))
	mock.ExpectDel("prefs:GroupListV1").SetVal(1)

	s := NewCachingStore(rdb, time.Minute, &mockStore{}, "prefs")

	require.NoError(t, s.Set(context.Background(), "GroupListV1", "[]"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingStore_StaleReadDoesNotOverwrite は読み込み中に書き込みが入っても古い値がキャッシュに残らないことを検証します。
func TestCachingStore_StaleReadDoesNotOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	mem := NewMemoryStore()
	require.NoError(t, mem.Set(ctx, "StockListV60", "old"))

	var s *CachingStore
	inner := &mockStore{
		// 内部ストアを読んだ直後に別の書き込みが完了した状況を再現する
		getFn: func(ctx context.Context, key string) (string, bool, error) {
			v, ok, err := mem.Get(ctx, key)
			require.NoError(t, s.Set(ctx, key, "new"))
			return v, ok, err
		},
		setFn: mem.Set,
	}
	s = NewCachingStore(rdb, time.Minute, inner, "prefs")

	v, ok, err := s.Get(ctx, "StockListV60")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "old", v)

	cached, err := mr.Get("prefs:StockListV60")
	require.NoError(t, err)
	assert.Equal(t, "new", cached)

	v, _, err = s.Get(ctx, "StockListV60")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

// TestCachingStore_Set_InnerError は内部ストアの書き込みエラー時にキャッシュを触らないことを検証します。
func TestCachingStore_Set_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("disk full")
	inner := &mockStore{
		setFn: func(ctx context.Context, key, value string) error { return expectedErr },
	}

	s := NewCachingStore(rdb, time.Minute, inner, "prefs")
	err := s.Set(context.Background(), "GroupListV1", "[]")

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"StockListV60", "StockListV60"},
		{"a b", "a_b"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, safe(tt.input))
		})
	}
}
