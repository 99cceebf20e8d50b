package templates

import (
	"context"
	"errors"
	"strings"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/store"
)

// CustomLookup finds a custom template by id within one owner's templates.
// *store.TemplateStore satisfies it.
type CustomLookup interface {
	Get(ctx context.Context, ownerID, id string) (*models.Template, error)
}

// Resolved is the instruction chosen for one transformation.
type Resolved struct {
	Label       string
	Instruction string
	Kind        models.TemplateKind
}

type Resolver struct {
	Catalog *Catalog
	Custom  CustomLookup
}

// Resolve picks the instruction for callerID. A templateID wins over a
// typeName when both are set. A custom template owned by someone else is
// reported exactly like a missing one.
func (r *Resolver) Resolve(ctx context.Context, callerID, templateID, typeName string) (Resolved, error) {
	templateID = strings.TrimSpace(templateID)
	typeName = strings.TrimSpace(typeName)

	switch {
	case templateID != "":
		t, err := r.Custom.Get(ctx, callerID, templateID)
		if errors.Is(err, store.ErrNotFound) {
			return Resolved{}, apperr.New(apperr.NotFound, "template not found or access denied")
		}
		if err != nil {
			return Resolved{}, apperr.Wrap(apperr.Persistence, err, "load template")
		}
		return Resolved{Label: t.Name, Instruction: t.PromptInstruction, Kind: models.KindCustom}, nil

	case typeName != "":
		t, ok := r.Catalog.Lookup(typeName)
		if !ok {
			return Resolved{}, apperr.New(apperr.NotFound, "built-in template not found")
		}
		return Resolved{Label: t.Name, Instruction: t.PromptInstruction, Kind: models.KindBuiltIn}, nil
	}
	return Resolved{}, apperr.New(apperr.Validation, "either templateId or valid typeName is required")
}
