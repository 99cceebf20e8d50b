// Package api exposes the studio over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/auth"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/store"
	"github.com/example/transcript-studio/internal/templates"
	"github.com/example/transcript-studio/internal/transcripts"
	"github.com/example/transcript-studio/internal/transform"
)

const (
	// TrailerStatus carries the terminal job status after the body.
	TrailerStatus = "X-Transform-Status"
	// HeaderAPIKey overrides the configured generation key for one request.
	HeaderAPIKey = "X-Generation-API-Key"
	// legacyHeaderAPIKey is the header older clients send.
	legacyHeaderAPIKey = "TogetherAPIToken"

	maxJSONBody   = 1 << 20
	maxUploadBody = 32 << 20
	writeGrace    = 15 * time.Second
)

type TranscriptReader interface {
	Get(ctx context.Context, ownerID, id string) (*models.Transcript, error)
	List(ctx context.Context, ownerID string) ([]*models.Transcript, error)
}

type JobReader interface {
	Find(ctx context.Context, id string) (*models.TransformationJob, error)
	ListBySource(ctx context.Context, sourceID string) ([]*models.TransformationJob, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	Transform   *transform.Coordinator
	Templates   *templates.Service
	Transcripts TranscriptReader
	Importer    *transcripts.Importer
	Jobs        JobReader
	Gate        auth.Gate
	Log         *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// RegisterRoutes mounts every route on mux. All routes except /health
// require an identified caller.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	guard := func(h http.HandlerFunc) http.Handler { return auth.Middleware(s.Gate, h) }

	mux.Handle("POST /api/transform", guard(s.handleTransform))

	mux.Handle("GET /api/prompt-templates", guard(s.listTemplates))
	mux.Handle("POST /api/prompt-templates", guard(s.createTemplate))
	mux.Handle("PUT /api/prompt-templates", guard(s.updateTemplate))
	mux.Handle("DELETE /api/prompt-templates", guard(s.deleteTemplate))

	mux.Handle("POST /api/transcripts", guard(s.createTranscript))
	mux.Handle("GET /api/transcripts", guard(s.listTranscripts))
	mux.Handle("GET /api/transcripts/{id}", guard(s.getTranscript))
	mux.Handle("GET /api/transcripts/{id}/transformations", guard(s.listTransformations))
	mux.Handle("GET /api/transformations/{id}", guard(s.getTransformation))
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger().Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// writeError maps err to its status and a client-safe message. Internal
// detail is logged, never sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)
	if status >= http.StatusInternalServerError {
		s.logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "kind", kind.String(), "err", err)
	}
	respondJSON(w, status, map[string]string{"error": apperr.Public(err)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.Validation, "request body is required")
		}
		return apperr.Wrap(apperr.Validation, err, "invalid JSON body")
	}
	return nil
}

// notFound hides whether a record exists for someone else.
func notFound(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, what+" not found")
	}
	return apperr.Wrap(apperr.Persistence, err, "load "+what)
}
