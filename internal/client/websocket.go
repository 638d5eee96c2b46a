package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
)

type wsEnvelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSTransport sends chat requests over one long-lived websocket. A connection
// dropped by a failed or cancelled request is redialed on the next Chat.
type WSTransport struct {
	mu         sync.Mutex
	url        string
	dialer     *websocket.Dialer
	conn       *websocket.Conn
	onProgress func(generation.Step)
}

// DialWS connects to baseURL + "/api/ws". http(s) schemes are mapped to ws(s).
func DialWS(ctx context.Context, baseURL string, onProgress func(generation.Step)) (*WSTransport, error) {
	wsURL := strings.TrimRight(baseURL, "/") + "/api/ws"
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}

	if onProgress == nil {
		onProgress = func(generation.Step) {}
	}
	t := &WSTransport{
		url:        wsURL,
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		onProgress: onProgress,
	}
	if err := t.connect(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *WSTransport) connect(ctx context.Context) error {
	conn, resp, err := t.dialer.DialContext(ctx, t.url, http.Header{})
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial failed: %w (status=%d)", err, resp.StatusCode)
		}
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	t.conn = conn
	return nil
}

// drop closes the current connection so the next Chat redials.
func (t *WSTransport) drop() {
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
}

// Chat writes req and reads frames until a result or an error arrives.
// Cancelling ctx closes the connection.
func (t *WSTransport) Chat(ctx context.Context, req generation.ChatRequest) (generation.ChatResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		if err := t.connect(ctx); err != nil {
			return generation.ChatResponse{}, err
		}
	}
	conn := t.conn

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		if !stop() {
			t.drop()
		}
	}()

	data, err := json.Marshal(req)
	if err != nil {
		return generation.ChatResponse{}, err
	}
	if err := conn.WriteJSON(wsEnvelope{Type: "chat", Data: data, Timestamp: time.Now().Unix()}); err != nil {
		t.drop()
		if ctx.Err() != nil {
			return generation.ChatResponse{}, ctx.Err()
		}
		return generation.ChatResponse{}, fmt.Errorf("write chat frame: %w", err)
	}

	for {
		var msg wsEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			t.drop()
			if ctx.Err() != nil {
				return generation.ChatResponse{}, ctx.Err()
			}
			return generation.ChatResponse{}, fmt.Errorf("read frame: %w", err)
		}

		switch msg.Type {
		case "progress":
			var progress struct {
				Step generation.Step `json:"step"`
			}
			if err := json.Unmarshal(msg.Data, &progress); err == nil {
				t.onProgress(progress.Step)
			}
		case "result":
			var out generation.ChatResponse
			if err := json.Unmarshal(msg.Data, &out); err != nil {
				return generation.ChatResponse{}, fmt.Errorf("decode result: %w", err)
			}
			return out, nil
		case "error":
			var body generation.ErrorResponse
			_ = json.Unmarshal(msg.Data, &body)
			if body.Error == "" {
				return generation.ChatResponse{}, errors.New("proxy returned an error")
			}
			return generation.ChatResponse{}, errors.New(body.Error)
		}
	}
}

// Close closes the websocket.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
