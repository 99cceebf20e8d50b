package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"
)

// MockClient is used when no real provider is configured. It streams a short
// canned text word by word.
type MockClient struct {
	// Delay between fragments. Zero streams as fast as the consumer reads.
	Delay time.Duration
}

func (m *MockClient) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		text := fmt.Sprintf("Mock output from %s for a prompt of %d characters.", modelOrDefault(req.Model), len(req.Prompt))
		words := strings.SplitAfter(text, " ")
		for _, w := range words {
			if m.Delay > 0 {
				select {
				case <-ctx.Done():
					yield("", ctx.Err())
					return
				case <-time.After(m.Delay):
				}
			} else if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(w, nil) {
				return
			}
		}
	}
}

func modelOrDefault(model string) string {
	if model == "" {
		return "mock"
	}
	return model
}
