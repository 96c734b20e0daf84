package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubCatalog struct {
	loaded bool
	count  int
}

func (s stubCatalog) Loaded() bool { return s.loaded }
func (s stubCatalog) Count() int   { return s.count }

func setupRouter(catalog CatalogStatus) *gin.Engine {
	r := gin.New()
	h := NewHealth(catalog)
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	return r
}

// TestHealth_GET はカタログの状態を含むレスポンスを検証します。
func TestHealth_GET(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		catalog      stubCatalog
		expectedBody string
	}{
		{"catalog loaded", stubCatalog{loaded: true, count: 3811}, `{"status":"ok","catalog":{"loaded":true,"count":3811}}`},
		{"catalog still loading", stubCatalog{}, `{"status":"ok","catalog":{"loaded":false,"count":0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.catalog).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		})
	}
}

// TestHealth_HEADAndOPTIONS はボディなしのメソッドのステータスコードを検証します。
func TestHealth_HEADAndOPTIONS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodHead, http.StatusOK},
		{http.MethodOptions, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(stubCatalog{loaded: true}).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}
