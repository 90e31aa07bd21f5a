// Package assistant provides the LLM text-completion boundary for chat and
// summary features.
package assistant

import "context"

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
}

// Provider turns a prompt into completion text. Implementations wrap a
// concrete LLM API.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
