// Package http wires the REST routes over the workspace layer.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mjaros/listkeeper/internal/http/handler"
	mw "github.com/mjaros/listkeeper/internal/http/middleware"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(server *handler.Server, authMiddleware *mw.Auth) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.ErrorContext(r.Context(), "Failed to write health check response", "error", err)
		}
	})

	r.Route("/v1", func(r chi.Router) {
		// Auth middleware for all API routes
		r.Use(authMiddleware.Validate)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", server.ListCategories)
			r.Post("/", server.CreateCategory)
			r.Put("/order", server.ReorderCategories)
			r.Patch("/{id}", server.RenameCategory)
			r.Delete("/{id}", server.DeleteCategory)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", server.ListLists)
			r.Post("/", server.CreateList)
			r.Put("/order", server.ReorderLists)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", server.RenameList)
				r.Delete("/", server.DeleteList)
				r.Post("/copy", server.CopyList)
				r.Put("/settings", server.UpdateListSettings)
				r.Put("/archived", server.SetListArchived)
				r.Post("/touch", server.TouchList)

				r.Route("/items", func(r chi.Router) {
					r.Post("/", server.CreateItem)
					r.Post("/reset", server.ResetItems)
					r.Patch("/{itemID}", server.UpdateItemText)
					r.Delete("/{itemID}", server.DeleteItem)
					r.Post("/{itemID}/toggle", server.ToggleItem)
				})

				r.Route("/sections", func(r chi.Router) {
					r.Post("/", server.CreateSection)
					r.Patch("/{sectionID}", server.RenameSection)
					r.Delete("/{sectionID}", server.DeleteSection)
				})
			})
		})

		r.Route("/combinations", func(r chi.Router) {
			r.Get("/", server.ListCombinations)
			r.Post("/", server.CreateCombination)
			r.Patch("/{id}", server.UpdateCombination)
			r.Delete("/{id}", server.DeleteCombination)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", server.ListSessions)
			r.Post("/", server.CreateSession)
			r.Post("/{id}/complete", server.CompleteSession)
			r.Delete("/{id}", server.DeleteSession)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", server.ListNotes)
			r.Post("/", server.CreateNote)
			r.Patch("/{id}", server.UpdateNote)
			r.Post("/{id}/toggle", server.ToggleNote)
			r.Delete("/{id}", server.DeleteNote)
		})
	})

	return r
}
