package page

import (
	"bytes"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
	generationService "github.com/zhouzirui/site-studio/backend/internal/service/generation"
)

// PreviewSource exposes locally generated previews. Only the in-memory
// backend provides one.
type PreviewSource interface {
	Preview(sessionID string) (generationService.Preview, bool)
}

// Handler serves the single-page UI and, when available, local previews.
type Handler struct {
	themes   theme.Store
	active   string
	previews PreviewSource
}

// New creates a page handler. previews may be nil.
func New(themes theme.Store, active string, previews PreviewSource) *Handler {
	return &Handler{themes: themes, active: active, previews: previews}
}

// RegisterRoutes registers page routes on the root router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	if h.previews != nil {
		r.Get("/preview/{sessionID}", h.handlePreview)
	}
}

type indexData struct {
	Theme theme.Theme
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	// 页面文案与服务端引导使用同一主题
	item, ok := h.themes.FindByID(h.active)
	if !ok {
		http.Error(w, "theme not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, indexData{Theme: item}); err != nil {
		log.Printf("[page] render index failed: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	preview, ok := h.previews.Preview(chi.URLParam(r, "sessionID"))
	if !ok {
		http.Error(w, "preview not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, preview); err != nil {
		log.Printf("[page] render preview failed: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
