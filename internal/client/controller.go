// Package client drives the proxy endpoint from a front end. The Controller
// owns the transcript and the cached session and allows one request in flight.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zhouzirui/site-studio/backend/internal/model/chat"
	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
)

var (
	// ErrEmptyMessage rejects blank input without touching state.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSendInFlight rejects a send while another one is running.
	ErrSendInFlight = errors.New("a message is already being sent")
)

// NetworkError wraps any failure of the transport or the proxy endpoint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("chat request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Phase tells whether the controller already holds a session.
type Phase string

const (
	PhaseNew        Phase = "new"
	PhaseContinuing Phase = "continuing"
)

// Transport delivers one chat request to the proxy endpoint.
type Transport interface {
	Chat(ctx context.Context, req generation.ChatRequest) (generation.ChatResponse, error)
}

// Replies holds the assistant texts appended after each send.
type Replies struct {
	Success string
	Failure string
}

// DefaultReplies matches the generic restaurant theme.
var DefaultReplies = Replies{
	Success: "Generated new restaurant website preview. Check the preview panel!",
	Failure: "Sorry, there was an error creating your restaurant website. Please try again.",
}

// Snapshot is an immutable view of the controller state.
type Snapshot struct {
	Transcript []chat.TranscriptEntry
	Session    *generation.Session
	InFlight   bool
}

// Phase derives the session phase from the snapshot.
func (s Snapshot) Phase() Phase {
	if s.Session == nil {
		return PhaseNew
	}
	return PhaseContinuing
}

// PreviewURL returns the current preview URL or "".
func (s Snapshot) PreviewURL() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.PreviewURL
}

// Controller owns one chat session.
type Controller struct {
	mu         sync.Mutex
	transport  Transport
	replies    Replies
	transcript []chat.TranscriptEntry
	session    *generation.Session
	inFlight   bool
	listeners  []func(Snapshot)
}

// NewController creates a controller in PhaseNew.
func NewController(transport Transport, replies Replies) *Controller {
	if replies.Success == "" {
		replies.Success = DefaultReplies.Success
	}
	if replies.Failure == "" {
		replies.Failure = DefaultReplies.Failure
	}
	return &Controller{transport: transport, replies: replies}
}

// OnChange registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that changed the state, outside the lock.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Send submits text. Blank text and sends while another is in flight are
// rejected without any state change. Otherwise exactly one assistant entry is
// appended when the request completes, whatever its outcome.
func (c *Controller) Send(ctx context.Context, text string) error {
	message := strings.TrimSpace(text)
	if message == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	c.inFlight = true
	c.transcript = append(c.transcript, chat.TranscriptEntry{Role: chat.RoleUser, Text: message})
	req := generation.ChatRequest{Message: message}
	if c.session != nil {
		req.ChatID = c.session.ID
	}
	snap, listeners := c.snapshotLocked(), c.listeners
	c.mu.Unlock()
	notify(listeners, snap)

	reply := c.replies.Failure
	var session *generation.Session
	defer func() {
		c.mu.Lock()
		if session != nil {
			c.session = session
		}
		c.transcript = append(c.transcript, chat.TranscriptEntry{Role: chat.RoleAssistant, Text: reply})
		c.inFlight = false
		snap, listeners := c.snapshotLocked(), c.listeners
		c.mu.Unlock()
		notify(listeners, snap)
	}()

	resp, err := c.transport.Chat(ctx, req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if resp.ID == "" {
		return &NetworkError{Err: errors.New("response missing session id")}
	}

	session = &generation.Session{ID: resp.ID, PreviewURL: resp.Demo}
	reply = c.replies.Success
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Transcript: append([]chat.TranscriptEntry(nil), c.transcript...),
		InFlight:   c.inFlight,
	}
	if c.session != nil {
		copied := *c.session
		snap.Session = &copied
	}
	return snap
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}
