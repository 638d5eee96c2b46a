package generation

// Session is the client-side copy of a generation context owned by the
// external service. The id is opaque and must be echoed on every follow-up.
type Session struct {
	ID         string `json:"id"`
	PreviewURL string `json:"demo"`
}

// Workspace binds environment configuration to one or more sessions.
type Workspace struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Env  []EnvVar `json:"environmentVariables,omitempty"`
}

// EnvVar is a single environment binding attached to a workspace.
type EnvVar struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Seed describes how a new session is initialized: from a packaged starter
// bundle (TemplateURL) or from the user's first message.
type Seed struct {
	TemplateURL string
	Message     string
}

// FromTemplate reports whether the seed references a starter bundle.
func (s Seed) FromTemplate() bool {
	return s.TemplateURL != ""
}
