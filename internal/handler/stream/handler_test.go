package stream

import (
	"bufio"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
	generationService "github.com/zhouzirui/site-studio/backend/internal/service/generation"
)

type frame struct {
	event string
	data  string
}

func readFrames(t *testing.T, body string) []frame {
	t.Helper()
	var frames []frame
	var current frame
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			frames = append(frames, current)
			current = frame{}
		}
	}
	return frames
}

func setup(t *testing.T) (*chi.Mux, *generationService.MemoryBackend) {
	t.Helper()
	backend := generationService.NewMemoryBackend("https://preview.test")
	svc, err := generationService.NewService(backend, generationService.BootstrapFromTheme(theme.Seed()[0], generationService.ModeMessage), nil)
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r, backend
}

func TestStreamReportsBootstrapSteps(t *testing.T) {
	r, _ := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader(`{"message":"pizza"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	frames := readFrames(t, rr.Body.String())
	var events []string
	for _, f := range frames {
		events = append(events, f.event)
	}
	want := "start,progress,progress,progress,result,end"
	if got := strings.Join(events, ","); got != want {
		t.Fatalf("unexpected events: %s", got)
	}
	if !strings.Contains(frames[1].data, "workspace_created") {
		t.Fatalf("unexpected first progress: %s", frames[1].data)
	}
	if !strings.Contains(frames[4].data, `"demo":"https://preview.test/`) {
		t.Fatalf("unexpected result: %s", frames[4].data)
	}
}

func TestStreamValidationError(t *testing.T) {
	r, _ := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader(`{"message":" "}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	frames := readFrames(t, rr.Body.String())
	if len(frames) != 3 || frames[1].event != "error" {
		t.Fatalf("unexpected frames: %+v", frames)
	}
	if frames[1].data != `{"error":"Message is required"}` {
		t.Fatalf("unexpected error payload: %s", frames[1].data)
	}
}

func TestStreamBackendErrorIsOpaque(t *testing.T) {
	r, backend := setup(t)
	backend.FailWith(generationService.OpContinueSession, errors.New("connection reset"))

	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader(`{"message":"x","chatId":"abc"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	body := rr.Body.String()
	if !strings.Contains(body, `{"error":"Failed to process request"}`) {
		t.Fatalf("expected generic error, got %s", body)
	}
	if strings.Contains(body, "connection reset") {
		t.Fatal("backend detail leaked")
	}
}
