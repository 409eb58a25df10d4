package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vkarpenko/shareit-go/pkg/config"
)

func newTestRouter() http.Handler {
	return NewRouter(Params{
		Config: &config.Config{App: config.AppConfig{Env: "test"}},
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-ShareIt-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestRouterGuardsSharerRoutes(t *testing.T) {
	router := newTestRouter()

	guarded := []struct{ method, target string }{
		{http.MethodPost, "/items"},
		{http.MethodGet, "/items"},
		{http.MethodPost, "/items/1/comment"},
		{http.MethodPost, "/requests"},
		{http.MethodPost, "/bookings"},
		{http.MethodGet, "/bookings"},
		{http.MethodGet, "/bookings/owner"},
		{http.MethodPatch, "/bookings/1"},
	}
	for _, route := range guarded {
		req := httptest.NewRequest(route.method, route.target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without sharer header, got %d", route.method, route.target, rec.Code)
		}
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated request id header")
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
