// Package brain provides LLM provider abstractions for sentiment
// evaluation. Providers speak OpenAI-compatible chat completion APIs
// so any endpoint exposing that shape can serve as a backend.
package brain

import (
	"context"
)

// Provider is the interface for LLM completion backends.
type Provider interface {
	// Name returns the provider's display name.
	Name() string

	// Available checks whether the provider is configured and usable.
	Available() bool

	// Generate produces a completion for the given request.
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a completion request.
type Request struct {
	// SystemPrompt sets the assistant's role and output contract.
	SystemPrompt string

	// UserPrompt is the content to evaluate.
	UserPrompt string

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int
}

// Response is a completion result.
type Response struct {
	// Content is the generated text.
	Content string

	// Model identifies which model produced the response.
	Model string

	// RawResponse preserves the unparsed API payload for debugging.
	RawResponse string
}
