package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zhouzirui/site-studio/backend/internal/handler/chat"
	"github.com/zhouzirui/site-studio/backend/internal/handler/live"
	"github.com/zhouzirui/site-studio/backend/internal/handler/page"
	"github.com/zhouzirui/site-studio/backend/internal/handler/stream"
	themeHandler "github.com/zhouzirui/site-studio/backend/internal/handler/theme"
	themeModel "github.com/zhouzirui/site-studio/backend/internal/model/theme"
	"github.com/zhouzirui/site-studio/backend/pkg/utils"
)

// Options carries everything the router needs.
type Options struct {
	Chat           chat.Processor
	Themes         themeModel.Store
	ActiveTheme    string
	Previews       page.PreviewSource
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	page.New(opts.Themes, opts.ActiveTheme, opts.Previews).RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		chat.New(opts.Chat).RegisterRoutes(api)
		stream.New(opts.Chat).RegisterRoutes(api)
		live.New(opts.Chat, originChecker(opts.AllowedOrigins)).RegisterRoutes(api)
		themeHandler.New(opts.Themes).RegisterRoutes(api)
	})

	return r
}

// originChecker mirrors the CORS allow-list for websocket upgrades. A wildcard
// or empty list accepts any origin.
func originChecker(allowed []string) func(r *http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return nil
		}
	}
	if len(allowed) == 0 {
		return nil
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, item := range allowed {
			if strings.EqualFold(item, origin) {
				return true
			}
		}
		return false
	}
}
