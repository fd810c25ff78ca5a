package llm

import (
	"context"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single prompt sent to a provider.
type Request struct {
	System string
	Prompt string
}
