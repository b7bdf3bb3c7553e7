package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjaros/listkeeper/internal/domain"
	"github.com/mjaros/listkeeper/internal/http/response"
)

// ListCategories handles GET /v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	ws := s.workspace(r)
	response.OK(w, map[string]any{
		"categories": ws.Categories(),
		"loading":    ws.Loading(),
	})
}

// CreateCategory handles POST /v1/categories.
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	category, err := s.workspace(r).AddCategory(r.Context(), req.Name)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"category": category})
}

// RenameCategory handles PATCH /v1/categories/{id}.
func (s *Server) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	err := s.workspace(r).RenameCategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteCategory handles DELETE /v1/categories/{id}. Lists in the category
// are deleted with it.
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ReorderCategories handles PUT /v1/categories/order. The body carries the
// full category sequence in its new order.
func (s *Server) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	if err := s.workspace(r).ReorderCategories(r.Context(), req.Categories); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
