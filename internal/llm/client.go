package llm

import "context"

// Message is a chat message passed to a backend. Role must be one of:
// "system", "user", or "assistant".
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Options override a model's configured generation parameters for a single
// call. Nil fields keep the configured defaults.
type Options struct {
	Temperature *float32
	MaxTokens   *int
}

// Client is the uniform interface over heterogeneous model backends. Agents
// and the orchestrator depend only on this interface, which keeps the
// dialogue loop testable against a stub.
type Client interface {
	// Generate sends the message history to the named model and returns the
	// completion text.
	Generate(ctx context.Context, model string, messages []Message, opts *Options) (string, error)
	// TestConnection performs a minimal round-trip probe against the named
	// model without mutating any state.
	TestConnection(ctx context.Context, model string) error
	// AvailableModels lists the models that were successfully initialized.
	AvailableModels() []string
}
