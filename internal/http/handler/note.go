package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjaros/listkeeper/internal/http/response"
	"github.com/mjaros/listkeeper/internal/workspace"
)

// ListNotes handles GET /v1/notes.
func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{"notes": s.workspace(r).Notes()})
}

// CreateNote handles POST /v1/notes.
func (s *Server) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	note, err := s.workspace(r).AddNote(r.Context(), req.Title, req.Content, req.Priority)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"note": note})
}

// UpdateNote handles PATCH /v1/notes/{id}.
func (s *Server) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Priority *string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	update := workspace.NoteUpdate{Title: req.Title, Content: req.Content, Priority: req.Priority}
	err := s.workspace(r).UpdateNote(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ToggleNote handles POST /v1/notes/{id}/toggle.
func (s *Server) ToggleNote(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).ToggleNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteNote handles DELETE /v1/notes/{id}.
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).DeleteNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
