package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
)

// StatusError is returned when the proxy answers with a non-2xx status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("proxy returned status %d", e.Status)
	}
	return fmt.Sprintf("proxy returned status %d: %s", e.Status, e.Message)
}

// HTTPTransport posts to the JSON endpoint.
type HTTPTransport struct {
	httpClient *http.Client
	endpoint   string
}

// NewHTTPTransport targets baseURL + "/api/chat". A nil httpClient gets a
// client without timeout.
func NewHTTPTransport(baseURL string, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPTransport{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/chat",
	}
}

// Chat sends req and decodes the session.
func (t *HTTPTransport) Chat(ctx context.Context, req generation.ChatRequest) (generation.ChatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return generation.ChatResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return generation.ChatResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return generation.ChatResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body generation.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &body)
		return generation.ChatResponse{}, &StatusError{Status: resp.StatusCode, Message: body.Error}
	}

	var out generation.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return generation.ChatResponse{}, fmt.Errorf("decode chat response after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	return out, nil
}
