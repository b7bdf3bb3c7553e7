package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjaros/listkeeper/internal/http/response"
	"github.com/mjaros/listkeeper/internal/workspace"
)

// ListCombinations handles GET /v1/combinations.
func (s *Server) ListCombinations(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{"combinations": s.workspace(r).Combinations()})
}

// CreateCombination handles POST /v1/combinations.
func (s *Server) CreateCombination(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string   `json:"name"`
		ListIDs []string `json:"listIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	combination, err := s.workspace(r).AddCombination(r.Context(), req.Name, req.ListIDs)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"combination": combination})
}

// UpdateCombination handles PATCH /v1/combinations/{id}.
func (s *Server) UpdateCombination(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    *string  `json:"name"`
		ListIDs []string `json:"listIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	update := workspace.CombinationUpdate{Name: req.Name, ListIDs: req.ListIDs}
	err := s.workspace(r).UpdateCombination(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteCombination handles DELETE /v1/combinations/{id}.
func (s *Server) DeleteCombination(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).DeleteCombination(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ListSessions handles GET /v1/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{"sessions": s.workspace(r).Sessions()})
}

// CreateSession handles POST /v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string   `json:"name"`
		ListIDs    []string `json:"listIds"`
		CategoryID string   `json:"categoryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	session, err := s.workspace(r).AddSession(r.Context(), req.Name, req.ListIDs, req.CategoryID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"session": session})
}

// CompleteSession handles POST /v1/sessions/{id}/complete. Every item in
// every referenced list gets its completed flag cleared.
func (s *Server) CompleteSession(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).CompleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteSession handles DELETE /v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).DeleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
