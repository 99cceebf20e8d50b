// Package transform drives one transcript transformation from request to
// persisted result: it validates the request, builds the prompt, opens the
// job record, relays model output to the caller and writes the outcome once.
package transform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/providers/llm"
	"github.com/example/transcript-studio/internal/store"
	"github.com/example/transcript-studio/internal/templates"
)

const (
	DefaultTimeout            = 60 * time.Second
	DefaultCheckpointInterval = 5 * time.Second

	finalizeTimeout = 10 * time.Second
	releaseGrace    = 2 * time.Second
)

// ErrStreamed is returned in Outcome.Err when Stream is called on a run
// that already streamed.
var ErrStreamed = errors.New("transform: run already streamed")

// JobStore is the slice of store.JobStore the coordinator writes to.
type JobStore interface {
	Create(ctx context.Context, j store.NewJob) (string, error)
	Checkpoint(ctx context.Context, id, text string) error
	Finalize(ctx context.Context, id, text string, status models.JobStatus, reason string) error
}

type TranscriptLookup interface {
	Get(ctx context.Context, ownerID, id string) (*models.Transcript, error)
}

type TemplateResolver interface {
	Resolve(ctx context.Context, callerID, templateID, typeName string) (templates.Resolved, error)
}

// Sink receives the response body. Flush pushes buffered bytes to the
// caller so each fragment leaves as soon as it is produced.
type Sink interface {
	io.Writer
	Flush() error
}

// Request is the body of a transform call.
type Request struct {
	SourceID   string `json:"sourceId"`
	TypeName   string `json:"typeName,omitempty"`
	TemplateID string `json:"templateId,omitempty"`
	// APIKey overrides the configured generation key for this call only.
	APIKey string `json:"-"`
}

type Config struct {
	Model              string
	Timeout            time.Duration
	CheckpointInterval time.Duration
	OnDisconnect       DisconnectPolicy
}

type Coordinator struct {
	jobs        JobStore
	transcripts TranscriptLookup
	resolver    TemplateResolver
	gen         llm.Client
	cfg         Config
	log         *slog.Logger
	now         func() time.Time
}

func New(jobs JobStore, transcripts TranscriptLookup, resolver TemplateResolver, gen llm.Client, cfg Config, log *slog.Logger) *Coordinator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CheckpointInterval < 0 {
		cfg.CheckpointInterval = 0
	}
	if !cfg.OnDisconnect.Valid() {
		cfg.OnDisconnect = DisconnectFail
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		jobs:        jobs,
		transcripts: transcripts,
		resolver:    resolver,
		gen:         gen,
		cfg:         cfg,
		log:         log.With("component", "transform"),
		now:         time.Now,
	}
}

// Timeout is the wall-clock limit of one generation.
func (c *Coordinator) Timeout() time.Duration { return c.cfg.Timeout }

// Prepare takes a request through PENDING and PROMPTED. Every failure here
// happens before any byte is written and before a job exists, except a
// failed job insert which leaves nothing behind either.
func (c *Coordinator) Prepare(ctx context.Context, callerID string, req Request) (*Run, error) {
	if callerID == "" {
		return nil, apperr.New(apperr.Auth, "unauthorized")
	}
	req.SourceID = strings.TrimSpace(req.SourceID)
	if req.SourceID == "" {
		return nil, apperr.New(apperr.Validation, "sourceId is required")
	}
	if strings.TrimSpace(req.TemplateID) == "" && strings.TrimSpace(req.TypeName) == "" {
		return nil, apperr.New(apperr.Validation, "either templateId or valid typeName is required")
	}

	tr, err := c.transcripts.Get(ctx, callerID, req.SourceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "transcription not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "load transcription")
	}

	resolved, err := c.resolver.Resolve(ctx, callerID, req.TemplateID, req.TypeName)
	if err != nil {
		return nil, err
	}

	run := &Run{
		c:      c,
		state:  StatePending,
		prompt: BuildPrompt(resolved.Label, tr.Text, resolved.Instruction),
		apiKey: req.APIKey,
	}
	run.JobID, err = c.jobs.Create(ctx, store.NewJob{
		SourceID:      tr.ID,
		OwnerID:       callerID,
		TemplateLabel: resolved.Label,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "create transformation")
	}
	run.log = c.log.With("job_id", run.JobID, "source_id", tr.ID, "template", resolved.Label)
	run.mustAdvance(StatePrompted)
	run.log.Debug("transformation prompted", "prompt_bytes", len(run.prompt))
	return run, nil
}

// Outcome describes how a run ended.
type Outcome struct {
	JobID   string
	Trigger Trigger
	Status  models.JobStatus
	Text    string
	// Err is a finalize write failure. The stream itself already ended.
	Err error
}

// Run is one prepared transformation. Stream may be called once.
type Run struct {
	JobID string

	c         *Coordinator
	log       *slog.Logger
	state     State
	prompt    string
	apiKey    string
	finalized bool
}

func (r *Run) State() State { return r.state }

type fragment struct {
	text string
	err  error
}

// Stream writes the control line, relays fragments until the model finishes
// or the run is cut short, and finalizes the job exactly once. ctx is the
// caller's request context: its cancellation means the caller went away.
func (r *Run) Stream(ctx context.Context, out Sink) Outcome {
	if r.finalized || r.state != StatePrompted {
		return Outcome{JobID: r.JobID, Err: ErrStreamed}
	}
	r.mustAdvance(StateStreaming)
	start := r.c.now()

	genCtx, cancel := context.WithTimeout(ctx, r.c.cfg.Timeout)
	defer cancel()

	var acc strings.Builder
	trigger := r.relay(ctx, genCtx, cancel, out, &acc)

	o := r.finalize(ctx, trigger, acc.String())
	r.log.Info("transformation finalized",
		"trigger", string(trigger),
		"status", string(o.Status),
		"bytes", acc.Len(),
		"duration", r.c.now().Sub(start))
	return o
}

func (r *Run) relay(ctx, genCtx context.Context, cancel context.CancelFunc, out Sink, acc *strings.Builder) Trigger {
	if err := writeControl(out, r.JobID); err != nil {
		return classify(ctx, genCtx)
	}

	frags := make(chan fragment)
	done := make(chan struct{})
	seq := r.c.gen.Stream(genCtx, llm.Request{Model: r.c.cfg.Model, Prompt: r.prompt, APIKey: r.apiKey})
	go pump(genCtx, seq, frags, done)
	defer func() {
		cancel()
		select {
		case <-done:
		case <-time.After(releaseGrace):
			r.log.Warn("generator did not release after cancel")
		}
	}()

	lastCheckpoint := r.c.now()
	for {
		select {
		case f, ok := <-frags:
			if !ok {
				// pump also closes frags when it gives up on a cancelled ctx.
				if genCtx.Err() != nil {
					return classify(ctx, genCtx)
				}
				return TriggerSequenceExhausted
			}
			if f.err != nil {
				if genCtx.Err() != nil {
					return classify(ctx, genCtx)
				}
				r.log.Warn("generation failed", "err", f.err)
				return TriggerUpstreamError
			}
			if _, err := io.WriteString(out, f.text); err != nil {
				return classify(ctx, genCtx)
			}
			if err := out.Flush(); err != nil {
				return classify(ctx, genCtx)
			}
			acc.WriteString(f.text)
			if iv := r.c.cfg.CheckpointInterval; iv > 0 && r.c.now().Sub(lastCheckpoint) >= iv {
				lastCheckpoint = r.c.now()
				if err := r.c.jobs.Checkpoint(genCtx, r.JobID, acc.String()); err != nil {
					r.log.Warn("checkpoint failed", "err", err)
				}
			}
		case <-genCtx.Done():
			return classify(ctx, genCtx)
		}
	}
}

// pump forwards the generator's output one fragment at a time. Returning
// from the range body stops the generator.
func pump(ctx context.Context, seq iter.Seq2[string, error], frags chan<- fragment, done chan<- struct{}) {
	defer close(done)
	defer close(frags)
	for s, err := range seq {
		select {
		case frags <- fragment{text: s, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// classify names the reason a stream stopped early. A cancelled caller
// context wins; an elapsed generation deadline is a timeout; anything else,
// such as a broken connection, counts as the caller going away.
func classify(ctx, genCtx context.Context) Trigger {
	if ctx.Err() != nil {
		return TriggerClientCancelled
	}
	if errors.Is(genCtx.Err(), context.DeadlineExceeded) {
		return TriggerTimeoutElapsed
	}
	return TriggerClientCancelled
}

func writeControl(out Sink, id string) error {
	b, err := json.Marshal(struct {
		ID string `json:"id"`
	}{id})
	if err != nil {
		return err
	}
	if _, err := out.Write(append(b, '\n')); err != nil {
		return err
	}
	return out.Flush()
}

// finalize performs the single terminal write for the run. The write is
// detached from ctx so a cancelled caller still gets its outcome recorded.
func (r *Run) finalize(ctx context.Context, t Trigger, text string) Outcome {
	o := Outcome{JobID: r.JobID, Trigger: t, Text: text}
	r.finalized = true
	r.mustAdvance(StateFinalizing)

	status, reason, err := terminal(t, r.c.cfg.OnDisconnect)
	if err != nil {
		status, reason = models.StatusFailed, string(TriggerUpstreamError)
	}
	o.Status = status

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()
	switch err := r.c.jobs.Finalize(fctx, r.JobID, text, status, reason); {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		r.log.Info("job removed before finalize")
	default:
		r.log.Error("finalize failed", "err", err)
		o.Err = apperr.Wrap(apperr.Persistence, err, "finalize transformation")
	}

	if status == models.StatusComplete {
		r.mustAdvance(StateComplete)
	} else {
		r.mustAdvance(StateFailed)
	}
	return o
}

func (r *Run) mustAdvance(to State) {
	if err := next(r.state, to); err != nil {
		panic(err)
	}
	r.state = to
}
