package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/kv"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/store"
)

func newService(t *testing.T) (*Service, *Resolver) {
	t.Helper()
	ts := store.NewTemplateStore(kv.NewMemory(), store.Options{})
	cat := DefaultCatalog()
	return &Service{Catalog: cat, Store: ts}, &Resolver{Catalog: cat, Custom: ts}
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	for _, v := range []string{"summary", "quick-note", "list", "blog", "email"} {
		tpl, ok := cat.Lookup(v)
		if !ok {
			t.Fatalf("Lookup(%q) missing", v)
		}
		if tpl.Kind != models.KindBuiltIn || tpl.PromptInstruction == "" || tpl.OwnerID != "" {
			t.Fatalf("Lookup(%q) = %+v", v, tpl)
		}
	}
	if _, ok := cat.Lookup("podcast"); ok {
		t.Fatal("podcast should not be recognized")
	}

	all := cat.All()
	all[0].Name = "mutated"
	if got, _ := cat.Lookup("summary"); got.Name != "Summary" {
		t.Fatalf("All exposed internal state: %q", got.Name)
	}
}

func TestResolveBuiltIn(t *testing.T) {
	_, r := newService(t)
	got, err := r.Resolve(context.Background(), "alice", "", "summary")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Label != "Summary" || got.Instruction != "Return a summary of the transcription with a maximum of 100 words." {
		t.Fatalf("Resolve = %+v", got)
	}
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()
	svc, r := newService(t)
	tpl, err := svc.Create(ctx, "bob", "Bob's", "Bob's instruction")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name       string
		templateID string
		typeName   string
		want       apperr.Kind
	}{
		{"foreign template", tpl.ID, "", apperr.NotFound},
		{"missing template", "does-not-exist", "", apperr.NotFound},
		{"unknown built-in", "", "podcast", apperr.NotFound},
		{"neither", "", "", apperr.Validation},
		{"blank", "  ", "\t", apperr.Validation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(ctx, "alice", tt.templateID, tt.typeName)
			if got := apperr.KindOf(err); got != tt.want {
				t.Fatalf("Resolve err = %v (kind %v), want kind %v", err, got, tt.want)
			}
		})
	}

	// Foreign and missing must be indistinguishable.
	_, e1 := r.Resolve(ctx, "alice", tpl.ID, "")
	_, e2 := r.Resolve(ctx, "alice", "does-not-exist", "")
	if e1.Error() != e2.Error() {
		t.Fatalf("foreign %q != missing %q", e1, e2)
	}
}

func TestResolveCustomWinsOverTypeName(t *testing.T) {
	ctx := context.Background()
	svc, r := newService(t)
	tpl, _ := svc.Create(ctx, "alice", " Action items ", " List every action item. ")
	got, err := r.Resolve(ctx, "alice", tpl.ID, "summary")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Label != "Action items" || got.Instruction != "List every action item." || got.Kind != models.KindCustom {
		t.Fatalf("Resolve = %+v", got)
	}
}

type failingStore struct{ Store }

func (failingStore) Get(context.Context, string, string) (*models.Template, error) {
	return nil, errors.New("disk on fire")
}

func TestResolvePersistenceError(t *testing.T) {
	r := &Resolver{Catalog: DefaultCatalog(), Custom: failingStore{}}
	_, err := r.Resolve(context.Background(), "alice", "t1", "")
	if apperr.KindOf(err) != apperr.Persistence {
		t.Fatalf("Resolve err = %v, want persistence", err)
	}
	if apperr.Public(err) != "internal error" {
		t.Fatalf("Public = %q", apperr.Public(err))
	}
}

func TestServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	if _, err := svc.Create(ctx, "alice", "  ", "p"); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("Create blank name = %v, want validation", err)
	}
	tpl, err := svc.Create(ctx, "alice", "Notes", "Write notes.")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	listing, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listing.BuiltIn) != 5 || len(listing.Custom) != 1 {
		t.Fatalf("List = %d built-in, %d custom", len(listing.BuiltIn), len(listing.Custom))
	}
	if other, _ := svc.List(ctx, "bob"); len(other.Custom) != 0 || other.Custom == nil {
		t.Fatalf("List(bob).Custom = %v, want empty non-nil", other.Custom)
	}

	if _, err := svc.Update(ctx, "bob", tpl.ID, "x", "y"); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("Update foreign = %v, want not found", err)
	}
	if _, err := svc.Update(ctx, "alice", tpl.ID, "", "y"); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("Update blank = %v, want validation", err)
	}
	if err := svc.Delete(ctx, "bob", tpl.ID); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("Delete foreign = %v, want not found", err)
	}
	if err := svc.Delete(ctx, "alice", ""); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("Delete blank = %v, want validation", err)
	}
	if err := svc.Delete(ctx, "alice", tpl.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
