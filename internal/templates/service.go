package templates

import (
	"context"
	"errors"
	"strings"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/store"
)

// Store is the custom template persistence used by Service.
type Store interface {
	CustomLookup
	List(ctx context.Context, ownerID string) ([]*models.Template, error)
	Create(ctx context.Context, ownerID, name, prompt string) (*models.Template, error)
	Update(ctx context.Context, ownerID, id, name, prompt string) (*models.Template, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type Listing struct {
	BuiltIn []models.Template  `json:"builtIn"`
	Custom  []*models.Template `json:"custom"`
}

// Service is the owner-scoped template management surface.
type Service struct {
	Catalog *Catalog
	Store   Store
}

func (s *Service) List(ctx context.Context, callerID string) (*Listing, error) {
	custom, err := s.Store.List(ctx, callerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "list templates")
	}
	if custom == nil {
		custom = []*models.Template{}
	}
	return &Listing{BuiltIn: s.Catalog.All(), Custom: custom}, nil
}

func (s *Service) Create(ctx context.Context, callerID, name, prompt string) (*models.Template, error) {
	name, prompt = strings.TrimSpace(name), strings.TrimSpace(prompt)
	if name == "" || prompt == "" {
		return nil, apperr.New(apperr.Validation, "name and prompt are required")
	}
	t, err := s.Store.Create(ctx, callerID, name, prompt)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "create template")
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, callerID, id, name, prompt string) (*models.Template, error) {
	id, name, prompt = strings.TrimSpace(id), strings.TrimSpace(name), strings.TrimSpace(prompt)
	if id == "" || name == "" || prompt == "" {
		return nil, apperr.New(apperr.Validation, "id, name and prompt are required")
	}
	t, err := s.Store.Update(ctx, callerID, id, name, prompt)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "template not found or access denied")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "update template")
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.New(apperr.Validation, "template id is required")
	}
	err := s.Store.Delete(ctx, callerID, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "template not found or access denied")
	}
	if err != nil {
		return apperr.Wrap(apperr.Persistence, err, "delete template")
	}
	return nil
}
