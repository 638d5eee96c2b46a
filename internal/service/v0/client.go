// Package v0 talks to the v0 Platform API, which turns prompts into
// generated sites and hosts their live previews.
package v0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
)

const DefaultBaseURL = "https://api.v0.dev/v1"

// APIError is returned for any non-2xx response.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("v0 api %s failed: status=%d body=%s", e.Path, e.Status, e.Body)
}

var errMissingID = errors.New("v0 api response missing id")

// Client implements the generation backend over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL and a
// non-positive timeout leaves the http.Client without one.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := &http.Client{}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type projectRequest struct {
	Name                 string              `json:"name"`
	EnvironmentVariables []generation.EnvVar `json:"environmentVariables,omitempty"`
}

type projectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type zipSource struct {
	URL string `json:"url"`
}

type initRequest struct {
	Type string    `json:"type"`
	Zip  zipSource `json:"zip"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type assignRequest struct {
	ChatID string `json:"chatId"`
}

// chatResponse keeps only the fields the proxy relays.
type chatResponse struct {
	ID            string `json:"id"`
	Demo          string `json:"demo"`
	LatestVersion *struct {
		DemoURL string `json:"demoUrl"`
	} `json:"latestVersion,omitempty"`
}

func (r chatResponse) session() (generation.Session, error) {
	if r.ID == "" {
		return generation.Session{}, errMissingID
	}
	demo := r.Demo
	if demo == "" && r.LatestVersion != nil {
		demo = r.LatestVersion.DemoURL
	}
	return generation.Session{ID: r.ID, PreviewURL: demo}, nil
}

// CreateWorkspace creates a project carrying the supplied environment variables.
func (c *Client) CreateWorkspace(ctx context.Context, name string, env []generation.EnvVar) (generation.Workspace, error) {
	var resp projectResponse
	if err := c.postJSON(ctx, "/projects", projectRequest{Name: name, EnvironmentVariables: env}, &resp); err != nil {
		return generation.Workspace{}, err
	}
	if resp.ID == "" {
		return generation.Workspace{}, errMissingID
	}
	if resp.Name == "" {
		resp.Name = name
	}
	return generation.Workspace{ID: resp.ID, Name: resp.Name, Env: env}, nil
}

// InitSession starts a chat from a zip template or from a first message.
func (c *Client) InitSession(ctx context.Context, seed generation.Seed) (generation.Session, error) {
	var resp chatResponse
	var err error
	if seed.FromTemplate() {
		err = c.postJSON(ctx, "/chats/init", initRequest{Type: "zip", Zip: zipSource{URL: seed.TemplateURL}}, &resp)
	} else {
		err = c.postJSON(ctx, "/chats", messageRequest{Message: seed.Message}, &resp)
	}
	if err != nil {
		return generation.Session{}, err
	}
	return resp.session()
}

// Bind assigns a chat to a project.
func (c *Client) Bind(ctx context.Context, workspaceID, sessionID string) error {
	path := "/projects/" + url.PathEscape(workspaceID) + "/assign"
	return c.postJSON(ctx, path, assignRequest{ChatID: sessionID}, nil)
}

// ContinueSession sends a follow-up message to an existing chat.
func (c *Client) ContinueSession(ctx context.Context, sessionID, message string) (generation.Session, error) {
	var resp chatResponse
	path := "/chats/" + url.PathEscape(sessionID) + "/messages"
	if err := c.postJSON(ctx, path, messageRequest{Message: message}, &resp); err != nil {
		return generation.Session{}, err
	}
	if resp.ID == "" {
		resp.ID = sessionID
	}
	return resp.session()
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("v0 api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Path: path, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
