package chat

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEntry is one line of the chat panel. Entries are appended in
// order and never mutated.
type TranscriptEntry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
