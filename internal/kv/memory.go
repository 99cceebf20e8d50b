package kv

import (
	"bytes"
	"context"
	"iter"
	"sort"
	"sync"
)

// Memory is a map-backed Store for tests. Values are copied in and out.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	m.mu.RLock()
	v, ok := m.data[key.String()]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	m.mu.Lock()
	m.data[key.String()] = bytes.Clone(value)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	delete(m.data, key.String())
	m.mu.Unlock()
	return nil
}

func (m *Memory) Update(_ context.Context, key Key, fn UpdateFunc) error {
	k := key.String()
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.data[k]
	if !ok {
		return ErrNotFound
	}
	next, err := fn(bytes.Clone(old))
	if err != nil {
		return err
	}
	m.data[k] = bytes.Clone(next)
	return nil
}

func (m *Memory) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := prefix.prefixBytes()

	type pair struct {
		key string
		val []byte
	}
	m.mu.RLock()
	var matches []pair
	for k, v := range m.data {
		if bytes.HasPrefix([]byte(k), p) {
			matches = append(matches, pair{k, bytes.Clone(v)})
		}
	}
	m.mu.RUnlock()
	sort.Slice(matches, func(i, j int) bool { return matches[i].key < matches[j].key })

	return func(yield func(Entry, error) bool) {
		for _, e := range matches {
			if !yield(Entry{Key: decode([]byte(e.key)), Value: e.val}, nil) {
				return
			}
		}
	}
}

func (m *Memory) BatchSet(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.data[e.Key.String()] = bytes.Clone(e.Value)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
