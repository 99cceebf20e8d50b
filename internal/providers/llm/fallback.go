package llm

import (
	"context"
	"iter"
)

// KeyFallback serves a provider that has no configured key. Calls that
// carry their own APIKey go to Real; the rest get Mock output.
type KeyFallback struct {
	Real Client
	Mock Client
}

func (k *KeyFallback) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	if req.APIKey != "" {
		return k.Real.Stream(ctx, req)
	}
	return k.Mock.Stream(ctx, req)
}

var _ Client = (*KeyFallback)(nil)
