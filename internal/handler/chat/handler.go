package chat

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
	generationService "github.com/zhouzirui/site-studio/backend/internal/service/generation"
	"github.com/zhouzirui/site-studio/backend/pkg/utils"
)

// Processor 处理一次聊天请求
type Processor interface {
	Process(ctx context.Context, req generation.ChatRequest, observe generationService.Observer) (generation.Session, error)
}

// Handler 会话代理的HTTP处理器
type Handler struct {
	svc Processor
}

// New 创建聊天处理器
func New(svc Processor) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// handleChat 新建或继续生成会话
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload generation.ChatRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.svc.Process(r.Context(), payload, nil)
	if err != nil {
		status, message := generationService.Classify(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[chat] generation failed chatId=%q: %v", payload.ChatID, err)
		}
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, generation.ChatResponse{ID: session.ID, Demo: session.PreviewURL})
}
