package store

import (
	"context"
	"errors"
	"sort"

	"github.com/example/transcript-studio/internal/kv"
	"github.com/example/transcript-studio/internal/models"
)

// TemplateStore holds custom templates, keyed by owner.
type TemplateStore struct {
	db   kv.Store
	opts Options
}

func NewTemplateStore(db kv.Store, opts Options) *TemplateStore {
	return &TemplateStore{db: db, opts: opts}
}

func templateKey(ownerID, id string) kv.Key {
	return kv.Key{prefixTemplates, ownerID, id}
}

// Get returns the template only when it belongs to ownerID.
func (s *TemplateStore) Get(ctx context.Context, ownerID, id string) (*models.Template, error) {
	if ownerID == "" || id == "" {
		return nil, ErrNotFound
	}
	return get[models.Template](ctx, s.db, templateKey(ownerID, id))
}

// List returns the owner's templates ordered by creation time.
func (s *TemplateStore) List(ctx context.Context, ownerID string) ([]*models.Template, error) {
	out, err := list[models.Template](ctx, s.db, kv.Key{prefixTemplates, ownerID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *TemplateStore) Create(ctx context.Context, ownerID, name, prompt string) (*models.Template, error) {
	now := s.opts.now()
	t := &models.Template{
		ID:                s.opts.newID(),
		Name:              name,
		PromptInstruction: prompt,
		OwnerID:           ownerID,
		Kind:              models.KindCustom,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := put(ctx, s.db, templateKey(ownerID, t.ID), t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update rewrites name and prompt. ErrNotFound covers both a missing id and
// an id owned by someone else.
func (s *TemplateStore) Update(ctx context.Context, ownerID, id, name, prompt string) (*models.Template, error) {
	return update(ctx, s.db, templateKey(ownerID, id), func(t *models.Template) error {
		t.Name = name
		t.PromptInstruction = prompt
		t.UpdatedAt = s.opts.now()
		return nil
	})
}

func (s *TemplateStore) Delete(ctx context.Context, ownerID, id string) error {
	key := templateKey(ownerID, id)
	if _, err := s.db.Get(ctx, key); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Delete(ctx, key)
}
