package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/site-studio/backend/internal/handler/chat"
	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
	generationService "github.com/zhouzirui/site-studio/backend/internal/service/generation"
)

const (
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	pingInterval   = 54 * time.Second
	maxPendingJobs = 8
)

// Message types exchanged over the socket.
const (
	TypeChat     = "chat"
	TypeProgress = "progress"
	TypeResult   = "result"
	TypeError    = "error"
)

// InboundMessage 客户端发来的消息
type InboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// OutgoingMessage 服务端推送的消息
type OutgoingMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Handler WebSocket会话代理处理器
type Handler struct {
	svc          chat.Processor
	upgrader     websocket.Upgrader
	readTimeout  time.Duration
	pingInterval time.Duration
}

// New 创建WebSocket处理器. allowOrigin nil 时接受任意来源
func New(svc chat.Processor, allowOrigin func(r *http.Request) bool) *Handler {
	if allowOrigin == nil {
		allowOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin:     allowOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		readTimeout:  readTimeout,
		pingInterval: pingInterval,
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// connection 串行化同一连接上的写操作
type connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// handleWebSocket 处理WebSocket连接。读循环持续运行以响应pong，
// 聊天请求交给单独的worker按顺序处理
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &connection{conn: conn}
	jobs := make(chan json.RawMessage, maxPendingJobs)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for raw := range jobs {
			h.handleChat(ctx, c, raw)
		}
	}()
	defer func() {
		close(jobs)
		cancel()
		<-done
	}()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	go pingLoop(ctx, conn, h.pingInterval)

	for {
		var msg InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))

		switch msg.Type {
		case TypeChat:
			select {
			case jobs <- msg.Data:
			default:
				c.send(TypeError, generation.ErrorResponse{Error: "too many pending requests"})
			}
		default:
			c.send(TypeError, generation.ErrorResponse{Error: "unsupported message type: " + msg.Type})
		}
	}
}

func (h *Handler) handleChat(ctx context.Context, c *connection, raw json.RawMessage) {
	var req generation.ChatRequest
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			c.send(TypeError, generation.ErrorResponse{Error: "invalid chat payload"})
			return
		}
	}

	session, err := h.svc.Process(ctx, req, func(step generation.Step) {
		c.send(TypeProgress, map[string]generation.Step{"step": step})
	})
	if err != nil {
		status, message := generationService.Classify(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[websocket] generation failed chatId=%q: %v", req.ChatID, err)
		}
		c.send(TypeError, generation.ErrorResponse{Error: message})
		return
	}

	c.send(TypeResult, generation.ChatResponse{ID: session.ID, Demo: session.PreviewURL})
}

func (c *connection) send(kind string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[websocket] marshal %s failed: %v", kind, err)
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(OutgoingMessage{Type: kind, Data: data, Timestamp: time.Now().Unix()}); err != nil {
		log.Printf("[websocket] write %s failed: %v", kind, err)
	}
}

// pingLoop 定期发送ping消息. WriteControl 可以与其他写操作并发调用
func pingLoop(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
