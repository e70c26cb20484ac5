// Package llm talks to the hosted text-generation services.
package llm

import "context"

// Provider is the abstraction over a text-generation service.
type Provider interface {
	// Generate sends the request and returns the generated text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role.
	System string

	// Messages is the conversation. The atelier always sends a single
	// user message.
	Messages []Message

	MaxTokens   int
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the generated text, trimmed of surrounding whitespace.
	Text string

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
