package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/catalog/internal/config"
	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/internal/store"
	"github.com/nguyentranbao-ct/catalog/internal/usecase"
	"github.com/nguyentranbao-ct/catalog/pkg/clock"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type stubSource struct {
	mu       sync.Mutex
	products []models.RemoteProduct
	err      error
}

func (s *stubSource) ListProducts(context.Context) ([]models.RemoteProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products, s.err
}

func (s *stubSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func nineProducts() []models.RemoteProduct {
	out := make([]models.RemoteProduct, 0, 9)
	for i := 1; i <= 9; i++ {
		category := "jewelery"
		if i <= 3 {
			category = "electronics"
		}
		out = append(out, models.RemoteProduct{
			ID:          int64(i),
			Title:       fmt.Sprintf("Item %d", i),
			Description: "A very fine item",
			Category:    category,
			Price:       float64(i) * 10,
			Image:       "https://x.test/i.png",
		})
	}
	return out
}

type testServer struct {
	e     *echo.Echo
	store *store.Store
	src   *stubSource
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	src := &stubSource{products: nineProducts()}
	s, err := store.New(src, store.Options{PageSize: 8, Locale: "en", Clock: clock.NewFake(testNow)})
	require.NoError(t, err)
	uc := usecase.NewCatalogUsecase(s)

	renderer, err := NewRenderer()
	require.NoError(t, err)

	conf := &config.Config{Server: config.ServerConfig{CORSPattern: `^https://app\.test$`}}
	e, err := NewEcho(conf, NewHandler(uc), NewPageController(uc), renderer)
	require.NoError(t, err)
	return &testServer{e: e, store: s, src: src}
}

func (ts *testServer) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) doWithHeader(method, target, key, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(key, value)
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	return ts.do(http.MethodPost, target, strings.NewReader(values.Encode()), echo.MIMEApplicationForm)
}

func (ts *testServer) postJSON(method, target, body string) *httptest.ResponseRecorder {
	return ts.do(method, target, strings.NewReader(body), echo.MIMEApplicationJSON)
}
