package generation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
)

// Mode selects what a brand-new session is seeded with.
type Mode string

const (
	// ModeMessage seeds the session with the user's first message.
	ModeMessage Mode = "message"
	// ModeTemplate seeds the session with the theme's starter bundle and
	// discards the first message.
	ModeTemplate Mode = "template"
)

// ParseMode validates a configured bootstrap mode. Empty means ModeMessage.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeMessage:
		return ModeMessage, nil
	case ModeTemplate:
		return ModeTemplate, nil
	default:
		return "", fmt.Errorf("unknown bootstrap mode %q", raw)
	}
}

// Bootstrap describes the workspace created for a new session.
type Bootstrap struct {
	Mode        Mode
	ProjectName string
	Env         []generation.EnvVar
	TemplateURL string
}

// BootstrapFromTheme derives bootstrap settings from a theme. Themes without
// bindings get theme.DefaultEnv.
func BootstrapFromTheme(t theme.Theme, mode Mode) Bootstrap {
	name := t.ProjectName
	if name == "" {
		name = "My Project"
	}
	env := t.Env
	if len(env) == 0 {
		env = theme.DefaultEnv
	}
	return Bootstrap{
		Mode:        mode,
		ProjectName: name,
		Env:         append([]generation.EnvVar(nil), env...),
		TemplateURL: t.TemplateURL,
	}
}

// Service implements the session continuation contract. It holds no state
// between requests.
type Service struct {
	backend   Backend
	bootstrap Bootstrap
	refiner   Refiner
}

// NewService wires a backend with bootstrap settings. refiner may be nil.
func NewService(backend Backend, bootstrap Bootstrap, refiner Refiner) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("generation backend is required")
	}
	if bootstrap.Mode == "" {
		bootstrap.Mode = ModeMessage
	}
	if bootstrap.Mode == ModeTemplate && bootstrap.TemplateURL == "" {
		return nil, ErrTemplateMissing
	}
	return &Service{backend: backend, bootstrap: bootstrap, refiner: refiner}, nil
}

// Process validates req and either continues the referenced session or
// bootstraps a new one. observe may be nil.
func (s *Service) Process(ctx context.Context, req generation.ChatRequest, observe Observer) (generation.Session, error) {
	if strings.TrimSpace(req.Message) == "" {
		return generation.Session{}, ErrMessageRequired
	}
	if observe == nil {
		observe = func(generation.Step) {}
	}

	chatID := strings.TrimSpace(req.ChatID)
	if chatID != "" {
		return s.continueSession(ctx, chatID, s.refine(ctx, req.Message), observe)
	}
	return s.startSession(ctx, req.Message, observe)
}

func (s *Service) continueSession(ctx context.Context, chatID, message string, observe Observer) (generation.Session, error) {
	session, err := s.backend.ContinueSession(ctx, chatID, message)
	if err != nil {
		return generation.Session{}, &BackendError{Op: OpContinueSession, Err: err}
	}
	observe(generation.StepMessageSent)

	log.Printf("[generation] continued session=%s", session.ID)
	return session, nil
}

func (s *Service) startSession(ctx context.Context, message string, observe Observer) (generation.Session, error) {
	workspace, err := s.backend.CreateWorkspace(ctx, s.bootstrap.ProjectName, s.bootstrap.Env)
	if err != nil {
		return generation.Session{}, &BackendError{Op: OpCreateWorkspace, Err: err}
	}
	observe(generation.StepWorkspaceCreated)

	var seed generation.Seed
	if s.bootstrap.Mode == ModeTemplate {
		log.Printf("[generation] template bootstrap: first message discarded in favour of %s", s.bootstrap.TemplateURL)
		seed = generation.Seed{TemplateURL: s.bootstrap.TemplateURL}
	} else {
		seed = generation.Seed{Message: s.refine(ctx, message)}
	}

	session, err := s.backend.InitSession(ctx, seed)
	if err != nil {
		return generation.Session{}, &BackendError{Op: OpInitSession, Err: err}
	}
	observe(generation.StepSessionInitialized)

	if err := s.backend.Bind(ctx, workspace.ID, session.ID); err != nil {
		return generation.Session{}, &BackendError{Op: OpBind, Err: err}
	}
	observe(generation.StepSessionBound)

	log.Printf("[generation] started session=%s workspace=%s mode=%s", session.ID, workspace.ID, s.bootstrap.Mode)
	return session, nil
}

func (s *Service) refine(ctx context.Context, message string) string {
	if s.refiner == nil {
		return message
	}
	refined, err := s.refiner.Refine(ctx, message)
	if err != nil {
		log.Printf("[generation] prompt refinement failed, using original: %v", err)
		return message
	}
	if strings.TrimSpace(refined) == "" {
		return message
	}
	return refined
}
