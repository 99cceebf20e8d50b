package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/example/transcript-studio/internal/kv"
	"github.com/example/transcript-studio/internal/models"
)

type NewJob struct {
	SourceID      string
	OwnerID       string
	TemplateLabel string
}

type JobStore struct {
	db   kv.Store
	opts Options
}

func NewJobStore(db kv.Store, opts Options) *JobStore {
	return &JobStore{db: db, opts: opts}
}

// Create writes a new job in status generating with empty text and returns
// its id.
func (s *JobStore) Create(ctx context.Context, nj NewJob) (string, error) {
	now := s.opts.now()
	job := &models.TransformationJob{
		ID:            s.opts.newID(),
		SourceID:      nj.SourceID,
		OwnerID:       nj.OwnerID,
		TemplateLabel: nj.TemplateLabel,
		Status:        models.StatusGenerating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b, err := encode(job)
	if err != nil {
		return "", err
	}
	err = s.db.BatchSet(ctx, []kv.Entry{
		{Key: kv.Key{prefixJobs, job.ID}, Value: b},
		{Key: kv.Key{prefixTranscriptJobs, nj.SourceID, job.ID}, Value: []byte{}},
	})
	if err != nil {
		return "", fmt.Errorf("store: create job: %w", err)
	}
	return job.ID, nil
}

// Finalize records the accumulated text and terminal status. It returns
// ErrNotFound when the row is gone and ErrAlreadyFinal when it was already
// finalized.
func (s *JobStore) Finalize(ctx context.Context, id, text string, status models.JobStatus, reason string) error {
	if !status.Terminal() {
		return fmt.Errorf("store: finalize job %s with non-terminal status %q", id, status)
	}
	_, err := update(ctx, s.db, kv.Key{prefixJobs, id}, func(j *models.TransformationJob) error {
		if j.Status.Terminal() {
			return ErrAlreadyFinal
		}
		j.GeneratedText = text
		j.Status = status
		j.FailureReason = reason
		j.UpdatedAt = s.opts.now()
		return nil
	})
	return err
}

// Checkpoint stores partial text for a job that is still generating.
func (s *JobStore) Checkpoint(ctx context.Context, id, text string) error {
	_, err := update(ctx, s.db, kv.Key{prefixJobs, id}, func(j *models.TransformationJob) error {
		if j.Status.Terminal() {
			return ErrAlreadyFinal
		}
		j.GeneratedText = text
		j.UpdatedAt = s.opts.now()
		return nil
	})
	return err
}

func (s *JobStore) Find(ctx context.Context, id string) (*models.TransformationJob, error) {
	return get[models.TransformationJob](ctx, s.db, kv.Key{prefixJobs, id})
}

// ListBySource returns the jobs run against a transcript, oldest first.
func (s *JobStore) ListBySource(ctx context.Context, sourceID string) ([]*models.TransformationJob, error) {
	var out []*models.TransformationJob
	for e, err := range s.db.List(ctx, kv.Key{prefixTranscriptJobs, sourceID}) {
		if err != nil {
			return nil, err
		}
		id := e.Key[len(e.Key)-1]
		job, err := s.Find(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a job and its index entry. Missing jobs are not an error.
func (s *JobStore) Delete(ctx context.Context, id string) error {
	job, err := s.Find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.db.Delete(ctx, kv.Key{prefixTranscriptJobs, job.SourceID, id}); err != nil {
		return err
	}
	return s.db.Delete(ctx, kv.Key{prefixJobs, id})
}
