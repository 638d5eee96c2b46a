package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
)

// Call records one operation received by the MemoryBackend.
type Call struct {
	Op          Op
	WorkspaceID string
	Name        string
	Env         []generation.EnvVar
	SessionID   string
	Message     string
	TemplateURL string
}

// Preview describes a generated site held by the MemoryBackend.
type Preview struct {
	SessionID   string
	WorkspaceID string
	Version     int
	TemplateURL string
	Prompts     []string
	UpdatedAt   time.Time
}

// MemoryBackend is an in-process Backend for local development and tests.
// Preview URLs point at previewBase and change on every turn.
type MemoryBackend struct {
	mu          sync.RWMutex
	previewBase string
	workspaces  map[string]generation.Workspace
	previews    map[string]*Preview
	calls       []Call
	failures    map[Op]error
}

// NewMemoryBackend creates an empty backend whose preview URLs live under previewBase.
func NewMemoryBackend(previewBase string) *MemoryBackend {
	return &MemoryBackend{
		previewBase: strings.TrimRight(previewBase, "/"),
		workspaces:  make(map[string]generation.Workspace),
		previews:    make(map[string]*Preview),
		failures:    make(map[Op]error),
	}
}

// FailWith makes every subsequent op call return err. A nil err clears it.
func (b *MemoryBackend) FailWith(op Op, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Calls returns the ordered operation log.
func (b *MemoryBackend) Calls() []Call {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Call(nil), b.calls...)
}

// CreateWorkspace provisions a workspace with the supplied bindings.
func (b *MemoryBackend) CreateWorkspace(_ context.Context, name string, env []generation.EnvVar) (generation.Workspace, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: OpCreateWorkspace, Name: name, Env: append([]generation.EnvVar(nil), env...)})
	if err := b.failures[OpCreateWorkspace]; err != nil {
		return generation.Workspace{}, err
	}

	workspace := generation.Workspace{
		ID:   uuid.NewString(),
		Name: name,
		Env:  append([]generation.EnvVar(nil), env...),
	}
	b.workspaces[workspace.ID] = workspace
	b.calls[len(b.calls)-1].WorkspaceID = workspace.ID
	return workspace, nil
}

// InitSession starts a new generation context from seed.
func (b *MemoryBackend) InitSession(_ context.Context, seed generation.Seed) (generation.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: OpInitSession, Message: seed.Message, TemplateURL: seed.TemplateURL})
	if err := b.failures[OpInitSession]; err != nil {
		return generation.Session{}, err
	}

	preview := &Preview{
		SessionID:   uuid.NewString(),
		Version:     1,
		TemplateURL: seed.TemplateURL,
		UpdatedAt:   time.Now().UTC(),
	}
	if seed.Message != "" {
		preview.Prompts = append(preview.Prompts, seed.Message)
	}
	b.previews[preview.SessionID] = preview
	b.calls[len(b.calls)-1].SessionID = preview.SessionID
	return b.sessionFor(preview), nil
}

// Bind attaches a session to a workspace.
func (b *MemoryBackend) Bind(_ context.Context, workspaceID, sessionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: OpBind, WorkspaceID: workspaceID, SessionID: sessionID})
	if err := b.failures[OpBind]; err != nil {
		return err
	}

	if _, ok := b.workspaces[workspaceID]; !ok {
		return fmt.Errorf("workspace %s not found", workspaceID)
	}
	preview, ok := b.previews[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	preview.WorkspaceID = workspaceID
	return nil
}

// ContinueSession appends message to an existing session and bumps its preview.
func (b *MemoryBackend) ContinueSession(_ context.Context, sessionID, message string) (generation.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, Call{Op: OpContinueSession, SessionID: sessionID, Message: message})
	if err := b.failures[OpContinueSession]; err != nil {
		return generation.Session{}, err
	}

	preview, ok := b.previews[sessionID]
	if !ok {
		return generation.Session{}, ErrSessionNotFound
	}
	preview.Version++
	preview.Prompts = append(preview.Prompts, message)
	preview.UpdatedAt = time.Now().UTC()
	return b.sessionFor(preview), nil
}

// Preview returns a copy of the stored preview for sessionID.
func (b *MemoryBackend) Preview(sessionID string) (Preview, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	preview, ok := b.previews[sessionID]
	if !ok {
		return Preview{}, false
	}
	copied := *preview
	copied.Prompts = append([]string(nil), preview.Prompts...)
	return copied, true
}

func (b *MemoryBackend) sessionFor(p *Preview) generation.Session {
	return generation.Session{
		ID:         p.SessionID,
		PreviewURL: fmt.Sprintf("%s/%s?v=%d", b.previewBase, p.SessionID, p.Version),
	}
}
