package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stocklinker/internal/feature/watchlist/domain/entity"
	"stocklinker/internal/feature/watchlist/usecase"
)

// mockWatchlistUsecase はWatchlistUsecaseインターフェースのモック実装です。
type mockWatchlistUsecase struct {
	AddFunc           func(ctx context.Context, in usecase.NewStock) (entity.SavedStock, error)
	AddFromMasterFunc func(ctx context.Context, code string, groupID *string) (entity.SavedStock, error)
	RemoveFunc        func(ctx context.Context, code string) error
	UpdateFunc        func(code string) (entity.SavedStock, error)
	SetGroupFunc      func(ctx context.Context, code string, groupID *string) (entity.SavedStock, error)
	FilterFunc        func(groupID *string, query string) []entity.SavedStock
}

func (m *mockWatchlistUsecase) Add(ctx context.Context, in usecase.NewStock) (entity.SavedStock, error) {
	return m.AddFunc(ctx, in)
}

func (m *mockWatchlistUsecase) AddFromMaster(ctx context.Context, code string, groupID *string) (entity.SavedStock, error) {
	return m.AddFromMasterFunc(ctx, code, groupID)
}

func (m *mockWatchlistUsecase) Remove(ctx context.Context, code string) error {
	return m.RemoveFunc(ctx, code)
}

func (m *mockWatchlistUsecase) Touch(ctx context.Context, code string) (entity.SavedStock, error) {
	return m.UpdateFunc(code)
}

func (m *mockWatchlistUsecase) ToggleFavorite(ctx context.Context, code string) (entity.SavedStock, error) {
	return m.UpdateFunc(code)
}

func (m *mockWatchlistUsecase) SetMemo(ctx context.Context, code, memo string) (entity.SavedStock, error) {
	s, err := m.UpdateFunc(code)
	s.Memo = memo
	return s, err
}

func (m *mockWatchlistUsecase) SetGroup(ctx context.Context, code string, groupID *string) (entity.SavedStock, error) {
	return m.SetGroupFunc(ctx, code, groupID)
}

func (m *mockWatchlistUsecase) Get(code string) (entity.SavedStock, error) {
	return m.UpdateFunc(code)
}

func (m *mockWatchlistUsecase) Filter(groupID *string, query string) []entity.SavedStock {
	return m.FilterFunc(groupID, query)
}

func newTestRouter(uc WatchlistUsecase) *gin.Engine {
	h := NewStockHandler(uc)
	r := gin.New()
	r.GET("/stocks", h.List)
	r.POST("/stocks", h.Add)
	r.GET("/stocks/:code", h.Get)
	r.DELETE("/stocks/:code", h.Remove)
	r.POST("/stocks/:code/touch", h.Touch)
	r.POST("/stocks/:code/favorite", h.ToggleFavorite)
	r.PUT("/stocks/:code/memo", h.SetMemo)
	r.PUT("/stocks/:code/group", h.SetGroup)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

var toyota = entity.SavedStock{
	Code:           "7203",
	Name:           "トヨタ自動車",
	IsFavorite:     true,
	LastSearchedAt: time.UnixMilli(1718000000000),
	Sector:         "輸送用機器",
}

func lookup(code string) (entity.SavedStock, error) {
	if code == "7203" {
		return toyota, nil
	}
	return entity.SavedStock{}, fmt.Errorf("%w: %s", usecase.ErrNotFound, code)
}

// TestStockHandler_List は絞り込み条件の受け渡しと件数サマリーを検証します。
func TestStockHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		url           string
		expectedGroup *string
		expectedQuery string
	}{
		{"all groups", "/stocks", nil, ""},
		{"empty groupId means all", "/stocks?groupId=&q=toyota", nil, "toyota"},
		{"single group", "/stocks?groupId=holding", func() *string { s := "holding"; return &s }(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotGroup *string
			var gotQuery string
			r := newTestRouter(&mockWatchlistUsecase{
				FilterFunc: func(groupID *string, query string) []entity.SavedStock {
					gotGroup, gotQuery = groupID, query
					return []entity.SavedStock{toyota, {Code: "9999", Name: "手入力"}}
				},
			})

			w := serve(r, http.MethodGet, tt.url, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedGroup, gotGroup)
			assert.Equal(t, tt.expectedQuery, gotQuery)
			assert.JSONEq(t, `{"count":2,"favoriteCount":1,"stocks":[
				{"code":"7203","name":"トヨタ自動車","memo":"","isFavorite":true,"lastSearchedAt":1718000000000,"sector":"輸送用機器","themes":[],"groupId":null,"lastViewedPrice":null},
				{"code":"9999","name":"手入力","memo":"","isFavorite":false,"lastSearchedAt":0,"sector":"","themes":[],"groupId":null,"lastViewedPrice":null}
			]}`, w.Body.String())
		})
	}
}

// TestStockHandler_Add は登録APIのエラーマッピングとマスター登録の切り替えを検証します。
func TestStockHandler_Add(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		addErr         error
		expectedStatus int
		expectedMaster bool
	}{
		{"success: manual", `{"code":"7203","name":"トヨタ自動車"}`, nil, http.StatusCreated, false},
		{"success: from master", `{"code":"7203","fromMaster":true}`, nil, http.StatusCreated, true},
		{"failure: missing code", `{"name":"x"}`, nil, http.StatusBadRequest, false},
		{"failure: duplicate", `{"code":"7203","name":"x"}`, usecase.ErrDuplicateCode, http.StatusConflict, false},
		{"failure: validation", `{"code":"7203","name":" "}`, usecase.ErrValidation, http.StatusBadRequest, false},
		{"failure: not in master", `{"code":"0000","fromMaster":true}`, usecase.ErrNotFound, http.StatusNotFound, true},
		{"failure: internal", `{"code":"7203","name":"x"}`, errors.New("boom"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			usedMaster := false
			r := newTestRouter(&mockWatchlistUsecase{
				AddFunc: func(ctx context.Context, in usecase.NewStock) (entity.SavedStock, error) {
					return toyota, tt.addErr
				},
				AddFromMasterFunc: func(ctx context.Context, code string, groupID *string) (entity.SavedStock, error) {
					usedMaster = true
					return toyota, tt.addErr
				},
			})

			w := serve(r, http.MethodPost, "/stocks", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusBadRequest || tt.addErr != nil {
				assert.Equal(t, tt.expectedMaster, usedMaster)
			}
		})
	}
}

// TestStockHandler_CodeRoutes はコード指定の各APIが存在しない銘柄で404を返すことを検証します。
func TestStockHandler_CodeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/stocks/%s", ""},
		{http.MethodPost, "/stocks/%s/touch", ""},
		{http.MethodPost, "/stocks/%s/favorite", ""},
		{http.MethodPut, "/stocks/%s/memo", `{"memo":"目標3000円"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(&mockWatchlistUsecase{UpdateFunc: lookup})

			w := serve(r, tt.method, fmt.Sprintf(tt.path, "7203"), tt.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"7203"`)

			w = serve(r, tt.method, fmt.Sprintf(tt.path, "0000"), tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"error":"not found: 0000"}`, w.Body.String())
		})
	}
}

// TestStockHandler_SetMemo はメモがレスポンスに反映されることを検証します。
func TestStockHandler_SetMemo(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := newTestRouter(&mockWatchlistUsecase{UpdateFunc: lookup})

	w := serve(r, http.MethodPut, "/stocks/7203/memo", `{"memo":"損切り2500"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"memo":"損切り2500"`)
}

// TestStockHandler_SetGroup はnullでの解除と存在しないグループの404を検証します。
func TestStockHandler_SetGroup(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	var calls []*string
	r := newTestRouter(&mockWatchlistUsecase{
		SetGroupFunc: func(ctx context.Context, code string, groupID *string) (entity.SavedStock, error) {
			calls = append(calls, groupID)
			if groupID != nil && *groupID == "deleted" {
				return entity.SavedStock{}, usecase.ErrNotFound
			}
			s := toyota
			s.GroupID = groupID
			return s, nil
		},
	})

	w := serve(r, http.MethodPut, "/stocks/7203/group", `{"groupId":"holding"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"groupId":"holding"`)

	w = serve(r, http.MethodPut, "/stocks/7203/group", `{"groupId":null}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"groupId":null`)

	w = serve(r, http.MethodPut, "/stocks/7203/group", `{"groupId":"deleted"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	if assert.Len(t, calls, 3) {
		assert.Nil(t, calls[1])
	}
}

// TestStockHandler_Remove は削除成功時の204と存在しない銘柄の404を検証します。
func TestStockHandler_Remove(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := newTestRouter(&mockWatchlistUsecase{
		RemoveFunc: func(ctx context.Context, code string) error {
			_, err := lookup(code)
			return err
		},
	})

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/stocks/7203", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/stocks/0000", "").Code)
}
