// Package kv is a small key-value layer with hierarchical keys. Keys are
// string segments joined with ':' when encoded, so a prefix scan over
// Key{"templates", owner} never spills into another owner's entries.
//
// Badger backs the service; Memory backs unit tests.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

var ErrNotFound = errors.New("kv: not found")

const separator = ':'

type Key []string

// segmentEscaper keeps a ':' inside a segment from splitting it.
var (
	segmentEscaper   = strings.NewReplacer("%", "%25", ":", "%3A")
	segmentUnescaper = strings.NewReplacer("%3A", ":", "%25", "%")
)

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, seg := range k {
		parts[i] = segmentEscaper.Replace(seg)
	}
	return strings.Join(parts, string(separator))
}

func (k Key) encode() []byte { return []byte(k.String()) }

// prefixBytes returns the encoded prefix with a trailing separator, so
// "a:b" does not match "a:bc". An empty key scans everything.
func (k Key) prefixBytes() []byte {
	if len(k) == 0 {
		return nil
	}
	return append(k.encode(), separator)
}

func decode(b []byte) Key {
	parts := strings.Split(string(b), string(separator))
	for i, p := range parts {
		parts[i] = segmentUnescaper.Replace(p)
	}
	return Key(parts)
}

type Entry struct {
	Key   Key
	Value []byte
}

// UpdateFunc receives the current value and returns the replacement. The
// returned error aborts the update and is passed through to the caller.
type UpdateFunc func(old []byte) ([]byte, error)

type Store interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key Key) error
	// Update applies fn to an existing value atomically. ErrNotFound if absent.
	Update(ctx context.Context, key Key, fn UpdateFunc) error
	// List yields entries under prefix in lexicographic key order.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]
	BatchSet(ctx context.Context, entries []Entry) error
	Close() error
}
