package driven

import "context"

// LLMService provides text completion for question answering.
// This is an optional service - when nil, the ask surface is disabled and
// everything else keeps working.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Complete produces a completion for a prompt. maxOutputChars bounds
	// the response size; implementations translate it to their own token
	// limit. Failures map to domain.ErrRateLimited, domain.ErrUnreachable
	// or domain.ErrMalformedResponse.
	Complete(ctx context.Context, prompt string, maxOutputChars int) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
