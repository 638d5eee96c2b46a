package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
	generationService "github.com/zhouzirui/site-studio/backend/internal/service/generation"
)

func newTestRouter(t *testing.T, origins []string) http.Handler {
	t.Helper()
	backend := generationService.NewMemoryBackend("http://localhost/preview")
	svc, err := generationService.NewService(backend, generationService.BootstrapFromTheme(theme.Seed()[0], generationService.ModeMessage), nil)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return NewRouter(Options{
		Chat:           svc,
		Themes:         theme.NewMemoryStore(theme.Seed()),
		ActiveTheme:    "restaurant",
		Previews:       backend,
		AllowedOrigins: origins,
	})
}

func TestRouterServesAPIAndPage(t *testing.T) {
	r := newTestRouter(t, []string{"*"})

	for _, tc := range []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/themes", "", http.StatusOK},
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/api/chat", `{"message":"pizza"}`, http.StatusOK},
		{http.MethodPost, "/api/chat", `{}`, http.StatusBadRequest},
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
		if rr.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.want, rr.Code)
		}
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	r := newTestRouter(t, []string{"https://studio.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://studio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://studio.example" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestOriginChecker(t *testing.T) {
	if originChecker([]string{"*"}) != nil {
		t.Fatal("wildcard should accept any origin")
	}

	check := originChecker([]string{"https://studio.example"})
	req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
	req.Header.Set("Origin", "https://evil.example")
	if check(req) {
		t.Fatal("expected foreign origin to be rejected")
	}
	req.Header.Set("Origin", "https://STUDIO.example")
	if !check(req) {
		t.Fatal("expected allowed origin")
	}
}
