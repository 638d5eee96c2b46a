package generation

import (
	"context"

	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
)

// Op names a backend operation.
type Op string

const (
	OpCreateWorkspace Op = "create-workspace"
	OpInitSession     Op = "init-session"
	OpBind            Op = "bind"
	OpContinueSession Op = "continue-session"
)

// Backend is the external site-generation collaborator.
type Backend interface {
	CreateWorkspace(ctx context.Context, name string, env []generation.EnvVar) (generation.Workspace, error)
	InitSession(ctx context.Context, seed generation.Seed) (generation.Session, error)
	Bind(ctx context.Context, workspaceID, sessionID string) error
	ContinueSession(ctx context.Context, sessionID, message string) (generation.Session, error)
}

// Refiner rewrites a user prompt before it is forwarded to the backend.
type Refiner interface {
	Refine(ctx context.Context, prompt string) (string, error)
}

// Observer receives progress steps while a request is processed.
type Observer func(step generation.Step)
