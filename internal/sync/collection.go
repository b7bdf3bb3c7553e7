// Package sync provides the generic realtime collection adapter: it mirrors
// one remote document collection, scoped by an owner identifier, into an
// in-memory list and offers write-through mutations. The mirror is only ever
// updated by snapshot pushes from the store; writes never touch it directly.
package sync

import (
	"context"
	gosync "sync"

	"github.com/mjaros/listkeeper/internal/docstore"
	"github.com/mjaros/listkeeper/internal/domain"
)

// Collection mirrors one remote collection of T documents.
//
// With no owner set the mirror is empty, not loading, and every mutation
// fails with domain.ErrUnauthenticated. Subscription errors are captured as
// state (Err), not returned; previously mirrored data is retained.
type Collection[T any] struct {
	store        docstore.Store
	pathTemplate string

	mu      gosync.RWMutex
	owner   string
	path    string
	items   []T
	loading bool
	errMsg  string
	changed chan struct{}

	// gen guards against pushes from torn-down subscriptions: every owner
	// change bumps it, and an apply with a stale generation is dropped.
	gen int
	sub docstore.Subscription
}

// New creates a collection adapter for a path template containing the
// {owner} placeholder and subscribes for the given owner. An empty owner
// leaves the adapter unauthenticated.
func New[T any](ctx context.Context, store docstore.Store, pathTemplate, owner string) *Collection[T] {
	c := &Collection[T]{
		store:        store,
		pathTemplate: pathTemplate,
		changed:      make(chan struct{}),
	}
	c.SetOwner(ctx, owner)
	return c
}

// SetOwner re-scopes the adapter to a new owner identifier. The previous
// subscription is torn down; an empty owner clears the mirror and disables
// mutations.
func (c *Collection[T]) SetOwner(ctx context.Context, owner string) {
	c.mu.Lock()

	c.gen++
	gen := c.gen
	old := c.sub
	c.sub = nil

	c.owner = owner
	c.items = nil
	c.errMsg = ""

	if owner == "" {
		c.path = ""
		c.loading = false
		c.notifyLocked()
		c.mu.Unlock()
		if old != nil {
			old.Close()
		}
		return
	}

	c.path = docstore.ResolvePath(c.pathTemplate, owner)
	c.loading = true
	path := c.path
	c.notifyLocked()
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}

	sub, err := c.store.Subscribe(ctx, path)

	c.mu.Lock()
	if c.gen != gen {
		// Owner changed again while subscribing.
		c.mu.Unlock()
		if sub != nil {
			sub.Close()
		}
		return
	}
	if err != nil {
		c.errMsg = err.Error()
		c.loading = false
		c.notifyLocked()
		c.mu.Unlock()
		return
	}
	c.sub = sub
	c.mu.Unlock()

	go c.consume(gen, sub)
}

// Close tears down the current subscription. The adapter behaves as
// unauthenticated afterwards.
func (c *Collection[T]) Close() {
	c.SetOwner(context.Background(), "")
}

func (c *Collection[T]) consume(gen int, sub docstore.Subscription) {
	for u := range sub.Updates() {
		c.apply(gen, u)
	}
}

// apply installs one subscription push: a full replace of the mirror, or an
// error captured as state.
func (c *Collection[T]) apply(gen int, u docstore.Update) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		// Push from a torn-down subscription; never applied.
		return
	}

	c.loading = false

	if u.Err != nil {
		c.errMsg = u.Err.Error()
		c.notifyLocked()
		return
	}

	items, err := docstore.Decode[T](u.Docs)
	if err != nil {
		c.errMsg = err.Error()
		c.notifyLocked()
		return
	}

	c.items = items
	c.errMsg = ""
	c.notifyLocked()
}

// notifyLocked wakes everyone waiting on Changed. Callers must hold c.mu.
func (c *Collection[T]) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

// Items returns a copy of the mirrored list. Order is whatever the backing
// subscription yields.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Loading reports whether the first snapshot for the current owner is still
// pending.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the last subscription error message, or "" when healthy.
func (c *Collection[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// Changed returns a channel closed on the next mirror change. Callers
// re-acquire it after every receive.
func (c *Collection[T]) Changed() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.changed
}

func (c *Collection[T]) writePath() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.owner == "" {
		return "", domain.ErrUnauthenticated
	}
	return c.path, nil
}

// Add writes the full item keyed by id. The mirror is not mutated locally;
// the change arrives with the next snapshot push.
func (c *Collection[T]) Add(ctx context.Context, id string, item T) error {
	path, err := c.writePath()
	if err != nil {
		return err
	}
	return c.store.Put(ctx, path, id, item)
}

// Update merges only the given fields onto the existing remote document.
func (c *Collection[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	path, err := c.writePath()
	if err != nil {
		return err
	}
	return c.store.Merge(ctx, path, id, fields)
}

// Delete removes the remote document by id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	path, err := c.writePath()
	if err != nil {
		return err
	}
	return c.store.Delete(ctx, path, id)
}
