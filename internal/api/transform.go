package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/example/transcript-studio/internal/auth"
	"github.com/example/transcript-studio/internal/transform"
)

// httpSink flushes through the ResponseController so each fragment leaves
// the server as soon as it is written.
type httpSink struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func (s *httpSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *httpSink) Flush() error {
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transform.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.APIKey = strings.TrimSpace(r.Header.Get(HeaderAPIKey))
	if req.APIKey == "" {
		req.APIKey = strings.TrimSpace(r.Header.Get(legacyHeaderAPIKey))
	}

	run, err := s.Transform.Prepare(r.Context(), auth.CallerID(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	h.Set("Trailer", TrailerStatus)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	// The server-wide WriteTimeout is shorter than a generation may run.
	if err := rc.SetWriteDeadline(time.Now().Add(s.Transform.Timeout() + writeGrace)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger().Warn("set write deadline", "err", err)
	}

	o := run.Stream(r.Context(), &httpSink{w: w, rc: rc})
	h.Set(TrailerStatus, string(o.Status))
}
