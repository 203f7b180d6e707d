package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a language model.
type Provider interface {
	// Generate sends the request and returns the model's output. When
	// req.Schema is set the returned Content is JSON that validated
	// against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Reading generation and grading are
	// single-turn, so this usually holds one user message.
	Messages []Message

	// Schema, when set, asks the provider for JSON conforming to it.
	// When nil, Content is the raw text.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0, 1]. Zero means the provider default.
	Temperature float64
}

// Message is a single conversation turn.
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

// Schema is the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, kebab-case, e.g. "reading-feedback".
	// It is also the compiled-schema cache key.
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
