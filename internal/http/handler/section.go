package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjaros/listkeeper/internal/http/response"
)

// CreateSection handles POST /v1/lists/{id}/sections. New sections land at
// the top of the list.
func (s *Server) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	section, err := s.workspace(r).AddSection(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"section": section})
}

// RenameSection handles PATCH /v1/lists/{id}/sections/{sectionID}.
func (s *Server) RenameSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	err := s.workspace(r).RenameSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"), req.Name)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteSection handles DELETE /v1/lists/{id}/sections/{sectionID}. Items
// in the section are detached, not deleted.
func (s *Server) DeleteSection(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).DeleteSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
