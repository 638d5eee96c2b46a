package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
)

func TestMemoryBackendPreviewTracksPrompts(t *testing.T) {
	backend := NewMemoryBackend("http://localhost:8080/preview/")
	ctx := context.Background()

	session, err := backend.InitSession(ctx, generation.Seed{Message: "bakery"})
	if err != nil {
		t.Fatalf("InitSession err: %v", err)
	}
	if !strings.HasPrefix(session.PreviewURL, "http://localhost:8080/preview/"+session.ID) {
		t.Fatalf("unexpected preview url: %s", session.PreviewURL)
	}

	if _, err := backend.ContinueSession(ctx, session.ID, "add hours"); err != nil {
		t.Fatalf("ContinueSession err: %v", err)
	}

	preview, ok := backend.Preview(session.ID)
	if !ok {
		t.Fatal("expected preview")
	}
	if preview.Version != 2 || len(preview.Prompts) != 2 || preview.Prompts[1] != "add hours" {
		t.Fatalf("unexpected preview: %+v", preview)
	}
}

func TestMemoryBackendBindUnknownSession(t *testing.T) {
	backend := NewMemoryBackend("http://x")
	ctx := context.Background()

	workspace, err := backend.CreateWorkspace(ctx, "p", nil)
	if err != nil {
		t.Fatalf("CreateWorkspace err: %v", err)
	}
	if err := backend.Bind(ctx, workspace.ID, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemoryBackendFailWithClears(t *testing.T) {
	backend := NewMemoryBackend("http://x")
	ctx := context.Background()

	backend.FailWith(OpCreateWorkspace, errors.New("boom"))
	if _, err := backend.CreateWorkspace(ctx, "p", nil); err == nil {
		t.Fatal("expected failure")
	}

	backend.FailWith(OpCreateWorkspace, nil)
	if _, err := backend.CreateWorkspace(ctx, "p", nil); err != nil {
		t.Fatalf("expected success after clearing, got %v", err)
	}
}
