package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/site-studio/backend/internal/handler"
	"github.com/zhouzirui/site-studio/backend/internal/handler/live"
	"github.com/zhouzirui/site-studio/backend/internal/model/chat"
	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
	generationService "github.com/zhouzirui/site-studio/backend/internal/service/generation"
)

func startServer(t *testing.T) (*httptest.Server, *generationService.MemoryBackend) {
	t.Helper()
	backend := generationService.NewMemoryBackend("https://preview.test")
	svc, err := generationService.NewService(backend, generationService.BootstrapFromTheme(theme.Seed()[0], generationService.ModeMessage), nil)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	srv := httptest.NewServer(handler.NewRouter(handler.Options{
		Chat:           svc,
		Themes:         theme.NewMemoryStore(theme.Seed()),
		ActiveTheme:    "restaurant",
		AllowedOrigins: []string{"*"},
	}))
	t.Cleanup(srv.Close)
	return srv, backend
}

func TestScenarioPizzaSiteThenMenuPage(t *testing.T) {
	srv, backend := startServer(t)
	ctrl := NewController(NewHTTPTransport(srv.URL, srv.Client()), DefaultReplies)
	ctx := context.Background()

	if err := ctrl.Send(ctx, "Create a pizza site"); err != nil {
		t.Fatalf("Send err: %v", err)
	}
	first := ctrl.Snapshot()
	if first.Session == nil || first.PreviewURL() == "" {
		t.Fatalf("expected session after first send: %+v", first)
	}
	if first.Transcript[0] != (chat.TranscriptEntry{Role: chat.RoleUser, Text: "Create a pizza site"}) {
		t.Fatalf("unexpected first entry: %+v", first.Transcript[0])
	}
	if first.Transcript[1].Role != chat.RoleAssistant || !strings.HasPrefix(first.Transcript[1].Text, "Generated") {
		t.Fatalf("unexpected reply: %+v", first.Transcript[1])
	}

	if err := ctrl.Send(ctx, "Add a menu page"); err != nil {
		t.Fatalf("Send err: %v", err)
	}
	second := ctrl.Snapshot()
	if second.Session.ID != first.Session.ID {
		t.Fatalf("session id changed: %s -> %s", first.Session.ID, second.Session.ID)
	}
	if second.PreviewURL() == first.PreviewURL() {
		t.Fatal("expected preview url to update")
	}

	calls := backend.Calls()
	last := calls[len(calls)-1]
	if len(calls) != 4 || last.Op != generationService.OpContinueSession || last.SessionID != first.Session.ID || last.Message != "Add a menu page" {
		t.Fatalf("unexpected backend calls: %+v", calls)
	}
}

func TestHTTPTransportStatusError(t *testing.T) {
	srv, backend := startServer(t)
	backend.FailWith(generationService.OpCreateWorkspace, errors.New("boom"))

	_, err := NewHTTPTransport(srv.URL, nil).Chat(context.Background(), generation.ChatRequest{Message: "pizza"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != 500 || statusErr.Message != generationService.ProcessingFailed {
		t.Fatalf("unexpected error: %+v", statusErr)
	}
}

func TestWSTransportRoundTrip(t *testing.T) {
	srv, _ := startServer(t)

	var steps []generation.Step
	transport, err := DialWS(context.Background(), srv.URL, func(step generation.Step) {
		steps = append(steps, step)
	})
	if err != nil {
		t.Fatalf("DialWS err: %v", err)
	}
	t.Cleanup(func() { transport.Close() })

	ctrl := NewController(transport, DefaultReplies)
	if err := ctrl.Send(context.Background(), "Create a pizza site"); err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if len(steps) != 3 || steps[2] != generation.StepSessionBound {
		t.Fatalf("unexpected steps: %v", steps)
	}

	if _, err := transport.Chat(context.Background(), generation.ChatRequest{}); err == nil || err.Error() != generationService.MessageRequired {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// stallingProcessor blocks its first request until the caller goes away.
type stallingProcessor struct {
	mu    sync.Mutex
	calls int
}

func (p *stallingProcessor) Process(ctx context.Context, req generation.ChatRequest, observe generationService.Observer) (generation.Session, error) {
	p.mu.Lock()
	p.calls++
	n := p.calls
	p.mu.Unlock()

	if n == 1 {
		<-ctx.Done()
		return generation.Session{}, ctx.Err()
	}
	return generation.Session{ID: "abc", PreviewURL: "https://abc.preview"}, nil
}

func TestWSTransportRedialsAfterCancel(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		live.New(&stallingProcessor{}, nil).RegisterRoutes(api)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	transport, err := DialWS(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("DialWS err: %v", err)
	}
	t.Cleanup(func() { transport.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := transport.Chat(ctx, generation.ChatRequest{Message: "Create a pizza site"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	ctrl := NewController(transport, DefaultReplies)
	if err := ctrl.Send(context.Background(), "Create a pizza site"); err != nil {
		t.Fatalf("Send after cancel err: %v", err)
	}
	if ctrl.Snapshot().PreviewURL() != "https://abc.preview" {
		t.Fatalf("unexpected state: %+v", ctrl.Snapshot())
	}
}
