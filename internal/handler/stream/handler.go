package stream

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zhouzirui/site-studio/backend/internal/handler/chat"
	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
	generationService "github.com/zhouzirui/site-studio/backend/internal/service/generation"
	"github.com/zhouzirui/site-studio/backend/pkg/utils"
)

// Handler relays generation progress via Server-Sent Events
type Handler struct {
	svc chat.Processor
}

// New creates a new stream handler
func New(svc chat.Processor) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the streaming chat route
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/stream", h.handleStream)
}

// Event payloads sent on the stream.
type (
	startEvent struct {
		RequestID string `json:"requestId"`
		Continue  bool   `json:"continue"`
	}
	progressEvent struct {
		Step generation.Step `json:"step"`
	}
)

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	var payload generation.ChatRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	requestID := uuid.NewString()
	utils.SendSSEEvent(w, flusher, "start", startEvent{RequestID: requestID, Continue: payload.ChatID != ""})

	session, err := h.svc.Process(r.Context(), payload, func(step generation.Step) {
		utils.SendSSEEvent(w, flusher, "progress", progressEvent{Step: step})
	})
	if err != nil {
		status, message := generationService.Classify(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[stream] generation failed request=%s: %v", requestID, err)
		}
		utils.SendSSEEvent(w, flusher, "error", generation.ErrorResponse{Error: message})
	} else {
		utils.SendSSEEvent(w, flusher, "result", generation.ChatResponse{ID: session.ID, Demo: session.PreviewURL})
		log.Printf("[stream] completed request=%s session=%s", requestID, session.ID)
	}

	utils.SendSSEEvent(w, flusher, "end", map[string]bool{"finished": true})
}
