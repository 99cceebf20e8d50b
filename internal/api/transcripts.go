package api

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/auth"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/store"
)

// createTranscript accepts JSON {title, text} or a multipart upload with a
// "file" part and an optional "title" field.
func (s *Server) createTranscript(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerID(r.Context())
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		tr  *models.Transcript
		err error
	)
	if mt == "multipart/form-data" {
		tr, err = s.importUpload(w, r, caller)
	} else {
		var body struct {
			Title string `json:"title"`
			Text  string `json:"text"`
		}
		if err = decodeJSON(w, r, &body); err == nil {
			tr, err = s.Importer.CreateText(r.Context(), caller, body.Title, body.Text)
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tr)
}

func (s *Server) importUpload(w http.ResponseWriter, r *http.Request, caller string) (*models.Transcript, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, apperr.Wrap(apperr.Validation, err, "upload too large")
		}
		return nil, apperr.Wrap(apperr.Validation, err, "invalid multipart body")
	}
	defer r.MultipartForm.RemoveAll()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "file is required")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "read upload")
	}
	return s.Importer.Import(r.Context(), caller, r.FormValue("title"), hdr.Filename, hdr.Header.Get("Content-Type"), data)
}

func (s *Server) listTranscripts(w http.ResponseWriter, r *http.Request) {
	out, err := s.Transcripts.List(r.Context(), auth.CallerID(r.Context()))
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.Persistence, err, "list transcriptions"))
		return
	}
	if out == nil {
		out = []*models.Transcript{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) getTranscript(w http.ResponseWriter, r *http.Request) {
	tr, err := s.Transcripts.Get(r.Context(), auth.CallerID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, notFound(err, "transcription"))
		return
	}
	respondJSON(w, http.StatusOK, tr)
}

func (s *Server) listTransformations(w http.ResponseWriter, r *http.Request) {
	tr, err := s.Transcripts.Get(r.Context(), auth.CallerID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, notFound(err, "transcription"))
		return
	}
	jobs, err := s.Jobs.ListBySource(r.Context(), tr.ID)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.Persistence, err, "list transformations"))
		return
	}
	if jobs == nil {
		jobs = []*models.TransformationJob{}
	}
	respondJSON(w, http.StatusOK, jobs)
}

func (s *Server) getTransformation(w http.ResponseWriter, r *http.Request) {
	job, err := s.Jobs.Find(r.Context(), r.PathValue("id"))
	if err == nil && job.OwnerID != auth.CallerID(r.Context()) {
		err = store.ErrNotFound
	}
	if err != nil {
		s.writeError(w, r, notFound(err, "transformation"))
		return
	}
	respondJSON(w, http.StatusOK, job)
}
