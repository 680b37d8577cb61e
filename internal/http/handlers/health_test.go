package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/taskhub/internal/http/handlers"
)

func TestHealthHandlers(t *testing.T) {
	h := handlers.NewHealthHandler(map[string]handlers.Check{
		"db": func(context.Context) error { return nil },
	})

	w := httptest.NewRecorder()
	setupRouter(http.MethodGet, "/", h.Root).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"online"`) {
		t.Fatalf("root got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	setupRouter(http.MethodGet, "/readyz", h.Readyz).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz got %d", w.Code)
	}
}

func TestReadyz_DependencyDown(t *testing.T) {
	h := handlers.NewHealthHandler(map[string]handlers.Check{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	w := httptest.NewRecorder()
	setupRouter(http.MethodGet, "/readyz", h.Readyz).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), `"redis":"down"`) {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}
