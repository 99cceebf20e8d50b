package store

import (
	"context"
	"sort"

	"github.com/example/transcript-studio/internal/kv"
	"github.com/example/transcript-studio/internal/models"
)

type TranscriptStore struct {
	db   kv.Store
	opts Options
}

func NewTranscriptStore(db kv.Store, opts Options) *TranscriptStore {
	return &TranscriptStore{db: db, opts: opts}
}

// NewID reserves an id before Create, so a document can be stored under it.
func (s *TranscriptStore) NewID() string { return s.opts.newID() }

// Create persists tr. An empty ID is assigned, a zero CreatedAt is set to now.
func (s *TranscriptStore) Create(ctx context.Context, tr *models.Transcript) error {
	if tr.ID == "" {
		tr.ID = s.opts.newID()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = s.opts.now()
	}
	return put(ctx, s.db, kv.Key{prefixTranscripts, tr.OwnerID, tr.ID}, tr)
}

func (s *TranscriptStore) Get(ctx context.Context, ownerID, id string) (*models.Transcript, error) {
	if ownerID == "" || id == "" {
		return nil, ErrNotFound
	}
	return get[models.Transcript](ctx, s.db, kv.Key{prefixTranscripts, ownerID, id})
}

func (s *TranscriptStore) List(ctx context.Context, ownerID string) ([]*models.Transcript, error) {
	out, err := list[models.Transcript](ctx, s.db, kv.Key{prefixTranscripts, ownerID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
