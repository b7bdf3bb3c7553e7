package workspace

import (
	"context"
	gosync "sync"

	"github.com/mjaros/listkeeper/internal/docstore"
)

// Registry hands out one workspace Service per owner, created lazily on
// first use and kept for the life of the process.
type Registry struct {
	store    docstore.Store
	notifier Notifier

	mu      gosync.Mutex
	byOwner map[string]*Service
}

// NewRegistry creates a registry backed by the given store.
func NewRegistry(store docstore.Store, notifier Notifier) *Registry {
	return &Registry{
		store:    store,
		notifier: notifier,
		byOwner:  make(map[string]*Service),
	}
}

// ForOwner returns the workspace for the owner, constructing it on first
// call. The subscription context should outlive the request; pass the
// process context.
func (r *Registry) ForOwner(ctx context.Context, owner string) *Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	if svc, ok := r.byOwner[owner]; ok {
		return svc
	}
	svc := NewService(ctx, r.store, owner, r.notifier)
	r.byOwner[owner] = svc
	return svc
}

// Close tears down every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for owner, svc := range r.byOwner {
		svc.Close()
		delete(r.byOwner, owner)
	}
}
