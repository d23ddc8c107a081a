package ports

import "context"

// GenerationOptions are per-call LLM parameters.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// LLMClient is the optional language-model collaborator. Implementations
// must return an error classified as quota-exhausted (see internal/errors)
// when the provider rejects for billing reasons, since resolution fallbacks
// branch on that distinction. Timeouts are the implementation's job; the
// core only sees success or failure.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}
