package generation

// ChatRequest is the body accepted by POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId,omitempty"`
}

// ChatResponse is returned on success; Demo is a URL suitable for a frame.
type ChatResponse struct {
	ID   string `json:"id"`
	Demo string `json:"demo"`
}

// ErrorResponse carries the client-facing error string.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Step names a stage of a proxied request, reported to progress observers.
type Step string

const (
	StepWorkspaceCreated   Step = "workspace_created"
	StepSessionInitialized Step = "session_initialized"
	StepSessionBound       Step = "session_bound"
	StepMessageSent        Step = "message_sent"
)
