package utils

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendSSEEventFormatsFrame(t *testing.T) {
	rr := httptest.NewRecorder()
	SetupSSEHeaders(rr)
	SendSSEEvent(rr, rr, "result", map[string]string{"id": "abc"})

	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if got := rr.Body.String(); got != "event: result\ndata: {\"id\":\"abc\"}\n\n" {
		t.Fatalf("unexpected frame: %q", got)
	}
	if !rr.Flushed {
		t.Fatal("expected flush")
	}
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	rr := httptest.NewRecorder()

	var payload struct{ Message string }
	if err := DecodeJSON(rr, req, &payload); err != nil {
		t.Fatalf("expected empty body to decode, got %v", err)
	}
}

func TestDecodeJSONMalformed(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader("{"))
	rr := httptest.NewRecorder()

	var payload struct{ Message string }
	if err := DecodeJSON(rr, req, &payload); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
