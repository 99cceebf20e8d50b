package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/transcript-studio/internal/kv"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/store"
)

// testOptions gives deterministic ids and a clock that ticks one second per call.
func testOptions() store.Options {
	var n int
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	return store.Options{
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func newBadger(t *testing.T) kv.Store {
	t.Helper()
	db, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	jobs := store.NewJobStore(newBadger(t), testOptions())

	id, err := jobs.Create(ctx, store.NewJob{SourceID: "tr-1", OwnerID: "alice", TemplateLabel: "Summary"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	job, err := jobs.Find(ctx, id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if job.Status != models.StatusGenerating || job.GeneratedText != "" {
		t.Fatalf("new job = %+v, want generating with empty text", job)
	}
	if job.TemplateLabel != "Summary" || job.SourceID != "tr-1" {
		t.Fatalf("new job = %+v", job)
	}

	if err := jobs.Checkpoint(ctx, id, "Hel"); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if err := jobs.Finalize(ctx, id, "Hello", models.StatusComplete, ""); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	job, _ = jobs.Find(ctx, id)
	if job.Status != models.StatusComplete || job.GeneratedText != "Hello" {
		t.Fatalf("finalized job = %+v", job)
	}

	err = jobs.Finalize(ctx, id, "again", models.StatusFailed, "")
	if !errors.Is(err, store.ErrAlreadyFinal) {
		t.Fatalf("second Finalize = %v, want ErrAlreadyFinal", err)
	}
	if err := jobs.Checkpoint(ctx, id, "late"); !errors.Is(err, store.ErrAlreadyFinal) {
		t.Fatalf("Checkpoint after final = %v, want ErrAlreadyFinal", err)
	}
}

func TestFinalizeMissingJob(t *testing.T) {
	ctx := context.Background()
	jobs := store.NewJobStore(kv.NewMemory(), testOptions())
	err := jobs.Finalize(ctx, "nope", "x", models.StatusComplete, "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Finalize missing = %v, want ErrNotFound", err)
	}
	if err := jobs.Finalize(ctx, "nope", "x", models.StatusGenerating, ""); err == nil {
		t.Fatal("expected error finalizing with non-terminal status")
	}
}

func TestListBySource(t *testing.T) {
	ctx := context.Background()
	jobs := store.NewJobStore(kv.NewMemory(), testOptions())
	a, _ := jobs.Create(ctx, store.NewJob{SourceID: "tr-1", TemplateLabel: "Summary"})
	b, _ := jobs.Create(ctx, store.NewJob{SourceID: "tr-1", TemplateLabel: "List"})
	if _, err := jobs.Create(ctx, store.NewJob{SourceID: "tr-2", TemplateLabel: "Email"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := jobs.ListBySource(ctx, "tr-1")
	if err != nil {
		t.Fatalf("ListBySource: %v", err)
	}
	if len(got) != 2 || got[0].ID != a || got[1].ID != b {
		t.Fatalf("ListBySource = %v, want [%s %s]", got, a, b)
	}

	if err := jobs.Delete(ctx, a); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = jobs.ListBySource(ctx, "tr-1")
	if len(got) != 1 || got[0].ID != b {
		t.Fatalf("ListBySource after delete = %v", got)
	}
}

func TestTemplateOwnership(t *testing.T) {
	ctx := context.Background()
	templates := store.NewTemplateStore(newBadger(t), testOptions())

	tpl, err := templates.Create(ctx, "alice", "Action items", "List action items.")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tpl.Kind != models.KindCustom || tpl.OwnerID != "alice" {
		t.Fatalf("Create = %+v", tpl)
	}

	if _, err := templates.Get(ctx, "alice", tpl.ID); err != nil {
		t.Fatalf("Get own: %v", err)
	}
	if _, err := templates.Get(ctx, "bob", tpl.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get foreign = %v, want ErrNotFound", err)
	}
	if _, err := templates.Update(ctx, "bob", tpl.ID, "x", "y"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Update foreign = %v, want ErrNotFound", err)
	}
	if err := templates.Delete(ctx, "bob", tpl.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Delete foreign = %v, want ErrNotFound", err)
	}

	updated, err := templates.Update(ctx, "alice", tpl.ID, "Todos", "List todos.")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Todos" || updated.PromptInstruction != "List todos." || !updated.CreatedAt.Equal(tpl.CreatedAt) {
		t.Fatalf("Update = %+v", updated)
	}

	if _, err := templates.Create(ctx, "alice", "Second", "p"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := templates.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != tpl.ID {
		t.Fatalf("List = %v", list)
	}
	if other, _ := templates.List(ctx, "bob"); len(other) != 0 {
		t.Fatalf("List(bob) = %v, want empty", other)
	}

	if err := templates.Delete(ctx, "alice", tpl.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := templates.Get(ctx, "alice", tpl.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}
}

func TestTranscripts(t *testing.T) {
	ctx := context.Background()
	transcripts := store.NewTranscriptStore(kv.NewMemory(), testOptions())
	tr := &models.Transcript{OwnerID: "alice", Title: "Q3", Text: "Meeting notes about Q3 roadmap"}
	if err := transcripts.Create(ctx, tr); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tr.ID == "" || tr.CreatedAt.IsZero() {
		t.Fatalf("Create did not assign id/time: %+v", tr)
	}
	got, err := transcripts.Get(ctx, "alice", tr.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != tr.Text {
		t.Fatalf("Get text = %q, want %q", got.Text, tr.Text)
	}
	if _, err := transcripts.Get(ctx, "bob", tr.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get foreign = %v, want ErrNotFound", err)
	}
	list, _ := transcripts.List(ctx, "alice")
	if len(list) != 1 {
		t.Fatalf("List = %v", list)
	}
}
