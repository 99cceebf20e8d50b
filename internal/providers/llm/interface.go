package llm

import (
	"context"
	"iter"
)

// Request is one generation call.
type Request struct {
	Model  string
	Prompt string
	// APIKey overrides the client's configured key for this call only.
	APIKey string
}

// Client streams generated text. The returned sequence is lazy and can be
// ranged over once: no upstream call is made until iteration starts, text
// fragments arrive in generation order, and a failure is yielded as the
// final element. Breaking out of the loop ends the upstream call.
type Client interface {
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}
