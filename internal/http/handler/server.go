// Package handler implements the REST handlers over the workspace layer.
package handler

import (
	"context"
	"net/http"

	"github.com/mjaros/listkeeper/internal/http/middleware"
	"github.com/mjaros/listkeeper/internal/workspace"
)

// Server holds the per-owner workspaces behind the REST surface.
type Server struct {
	registry *workspace.Registry

	// baseCtx outlives individual requests; workspace subscriptions are
	// bound to it rather than to a request context.
	baseCtx context.Context
}

// NewServer creates a new HTTP handler server.
func NewServer(baseCtx context.Context, registry *workspace.Registry) *Server {
	return &Server{
		registry: registry,
		baseCtx:  baseCtx,
	}
}

// workspace returns the authenticated caller's workspace.
func (s *Server) workspace(r *http.Request) *workspace.Service {
	owner := middleware.OwnerFromContext(r.Context())
	return s.registry.ForOwner(s.baseCtx, owner)
}
