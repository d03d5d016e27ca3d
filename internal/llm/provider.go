package llm

import "context"

// Provider is the completion backend behind the justifier and the profile
// extractor. Implementations must be safe for concurrent use.
type Provider interface {
	// Complete runs one prompt to completion. The returned content is the
	// raw model text; callers parse and validate it.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name reports the backend, for logs and error messages.
	Name() string
}
