package ai

import "context"

// Message represents a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Outcome is the result of one provider call. HTTP-level failures are
// outcomes, not errors: OK is false and Status/Body carry the upstream
// response verbatim. Errors are reserved for transport-level problems
// (connection refused, context cancelled).
type Outcome struct {
	OK     bool
	Text   string
	Status int
	Body   string
}

// Client is a provider-agnostic adapter to a remote chat-completion endpoint.
type Client interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (Outcome, error)
}

// BuildMessages assembles the ordered provider message list: the system
// prompt first, the caller-supplied history as-is, the new user message
// last. History is passed through untouched; any truncation is the
// caller's job.
func BuildMessages(systemPrompt string, history []Message, userMessage string) []Message {
	out := make([]Message, 0, len(history)+2)
	out = append(out, Message{Role: "system", Content: systemPrompt})
	out = append(out, history...)
	out = append(out, Message{Role: "user", Content: userMessage})
	return out
}
