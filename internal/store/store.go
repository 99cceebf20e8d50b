// Package store persists jobs, custom templates and transcripts as
// msgpack records on a kv.Store.
//
// Key layout:
//
//	jobs:<jobID>
//	transcript-jobs:<sourceID>:<jobID>   (index, empty value)
//	templates:<ownerID>:<templateID>
//	transcripts:<ownerID>:<transcriptID>
//
// Owner-scoped records are addressed through their owner, so a read with
// the wrong owner is indistinguishable from a read of a missing id.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/example/transcript-studio/internal/kv"
)

var (
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyFinal is returned by Finalize and Checkpoint for a job that
	// already reached a terminal status.
	ErrAlreadyFinal = errors.New("store: job already finalized")
)

const (
	prefixJobs           = "jobs"
	prefixTranscriptJobs = "transcript-jobs"
	prefixTemplates      = "templates"
	prefixTranscripts    = "transcripts"
)

// Options are shared by the stores in this package.
type Options struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID defaults to uuid.NewString.
	NewID func() string
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

func (o Options) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

func get[T any](ctx context.Context, db kv.Store, key kv.Key) (*T, error) {
	b, err := db.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return &v, nil
}

func encode(v any) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode: %w", err)
	}
	return b, nil
}

func put(ctx context.Context, db kv.Store, key kv.Key, v any) error {
	b, err := encode(v)
	if err != nil {
		return err
	}
	return db.Set(ctx, key, b)
}

// update decodes the record at key, applies fn and writes it back in one
// kv transaction.
func update[T any](ctx context.Context, db kv.Store, key kv.Key, fn func(*T) error) (*T, error) {
	var out T
	err := db.Update(ctx, key, func(old []byte) ([]byte, error) {
		if err := msgpack.Unmarshal(old, &out); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", key, err)
		}
		if err := fn(&out); err != nil {
			return nil, err
		}
		return msgpack.Marshal(&out)
	})
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, db kv.Store, prefix kv.Key) ([]*T, error) {
	var out []*T
	for e, err := range db.List(ctx, prefix) {
		if err != nil {
			return nil, err
		}
		var v T
		if err := msgpack.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", e.Key, err)
		}
		out = append(out, &v)
	}
	return out, nil
}
