package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjaros/listkeeper/internal/http/response"
)

// CreateItem handles POST /v1/lists/{id}/items.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		SectionID string `json:"sectionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	item, err := s.workspace(r).AddItem(r.Context(), chi.URLParam(r, "id"), req.Text, req.SectionID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, map[string]any{"item": item})
}

// UpdateItemText handles PATCH /v1/lists/{id}/items/{itemID}.
func (s *Server) UpdateItemText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	err := s.workspace(r).UpdateItemText(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Text)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteItem handles DELETE /v1/lists/{id}/items/{itemID}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).DeleteItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ToggleItem handles POST /v1/lists/{id}/items/{itemID}/toggle. The
// response reports whether the toggle left every item completed.
func (s *Server) ToggleItem(w http.ResponseWriter, r *http.Request) {
	allCompleted, err := s.workspace(r).ToggleItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, map[string]any{"allCompleted": allCompleted})
}

// ResetItems handles POST /v1/lists/{id}/items/reset.
func (s *Server) ResetItems(w http.ResponseWriter, r *http.Request) {
	err := s.workspace(r).ResetAllItems(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
