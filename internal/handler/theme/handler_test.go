package theme

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(theme.NewMemoryStore(theme.Seed())).RegisterRoutes(r)
	return r
}

func TestListThemesHidesBootstrapSettings(t *testing.T) {
	r := setupRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/themes", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var got []theme.Theme
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 themes, got %d", len(got))
	}
	if strings.Contains(rr.Body.String(), "myshopify.com") {
		t.Fatal("env bindings must not be exposed")
	}
}

func TestGetTheme(t *testing.T) {
	r := setupRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/themes/shopify", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/themes/bakery", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
