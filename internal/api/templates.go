package api

import (
	"net/http"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/auth"
)

type templateBody struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	out, err := s.Templates.List(r.Context(), auth.CallerID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var body templateBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.Templates.Create(r.Context(), auth.CallerID(r.Context()), body.Name, body.Prompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var body templateBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.Templates.Update(r.Context(), auth.CallerID(r.Context()), body.ID, body.Name, body.Prompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, r, apperr.New(apperr.Validation, "template id is required"))
		return
	}
	if err := s.Templates.Delete(r.Context(), auth.CallerID(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
