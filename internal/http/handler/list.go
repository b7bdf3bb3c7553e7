package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjaros/listkeeper/internal/domain"
	"github.com/mjaros/listkeeper/internal/http/response"
)

// ListLists handles GET /v1/lists.
func (s *Server) ListLists(w http.ResponseWriter, r *http.Request) {
	ws := s.workspace(r)
	response.OK(w, map[string]any{
		"lists":   ws.Lists(),
		"loading": ws.Loading(),
	})
}

// CreateList handles POST /v1/lists.
func (s *Server) CreateList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		CategoryID string `json:"categoryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	list, err := s.workspace(r).AddList(r.Context(), req.Name, req.CategoryID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"list": list})
}

// RenameList handles PATCH /v1/lists/{id}.
func (s *Server) RenameList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	err := s.workspace(r).RenameList(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteList handles DELETE /v1/lists/{id}. Combinations referencing the
// list are trimmed or removed as part of the delete.
func (s *Server) DeleteList(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).DeleteList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// CopyList handles POST /v1/lists/{id}/copy.
func (s *Server) CopyList(w http.ResponseWriter, r *http.Request) {
	list, err := s.workspace(r).CopyList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"list": list})
}

// UpdateListSettings handles PUT /v1/lists/{id}/settings.
func (s *Server) UpdateListSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Settings domain.ListSettings `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	err := s.workspace(r).UpdateListSettings(r.Context(), chi.URLParam(r, "id"), req.Settings)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// SetListArchived handles PUT /v1/lists/{id}/archived.
func (s *Server) SetListArchived(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Archived bool `json:"archived"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	err := s.workspace(r).SetListArchived(r.Context(), chi.URLParam(r, "id"), req.Archived)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// TouchList handles POST /v1/lists/{id}/touch, stamping last access time.
func (s *Server) TouchList(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).TouchList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ReorderLists handles PUT /v1/lists/order.
func (s *Server) ReorderLists(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lists []domain.List `json:"lists"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	if err := s.workspace(r).ReorderLists(r.Context(), req.Lists); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
