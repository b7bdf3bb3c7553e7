// Package memory provides an in-memory docstore.Store with fan-out realtime
// subscriptions. It is the reference backend for tests and single-process
// deployments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/mjaros/listkeeper/internal/docstore"
)

// Store is an in-memory implementation of docstore.Store.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]json.RawMessage
	subs        map[string][]*subscription
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]json.RawMessage),
		subs:        make(map[string][]*subscription),
	}
}

// Put writes the full document keyed by id.
func (s *Store) Put(ctx context.Context, path, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[path]
	if coll == nil {
		coll = make(map[string]json.RawMessage)
		s.collections[path] = coll
	}
	coll[id] = data

	s.broadcastLocked(path)
	return nil
}

// Merge overlays the given fields onto the existing document.
func (s *Store) Merge(ctx context.Context, path, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[path]
	if coll == nil {
		coll = make(map[string]json.RawMessage)
		s.collections[path] = coll
	}

	merged, err := docstore.MergeFields(coll[id], fields)
	if err != nil {
		return err
	}
	coll[id] = merged

	s.broadcastLocked(path)
	return nil
}

// Delete removes the document by id. Missing documents are a no-op.
func (s *Store) Delete(ctx context.Context, path, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[path]
	if coll == nil {
		return nil
	}
	if _, ok := coll[id]; !ok {
		return nil
	}
	delete(coll, id)

	s.broadcastLocked(path)
	return nil
}

// Load returns a one-shot snapshot of the collection.
func (s *Store) Load(ctx context.Context, path string) (docstore.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(path), nil
}

// Subscribe opens a realtime subscription; the current snapshot is delivered
// immediately.
func (s *Store) Subscribe(ctx context.Context, path string) (docstore.Subscription, error) {
	sub := &subscription{
		store: s,
		path:  path,
		ch:    make(chan docstore.Update, 1),
	}

	s.mu.Lock()
	s.subs[path] = append(s.subs[path], sub)
	sub.push(docstore.Update{Docs: s.snapshotLocked(path)})
	s.mu.Unlock()

	return sub, nil
}

// snapshotLocked copies the collection into a deterministic snapshot.
// Callers must hold s.mu.
func (s *Store) snapshotLocked(path string) docstore.Snapshot {
	coll := s.collections[path]
	snap := make(docstore.Snapshot, 0, len(coll))
	for id, data := range coll {
		cp := make(json.RawMessage, len(data))
		copy(cp, data)
		snap = append(snap, docstore.Document{ID: id, Data: cp})
	}
	sort.Slice(snap, func(i, j int) bool { return snap[i].ID < snap[j].ID })
	return snap
}

// broadcastLocked pushes the current snapshot to every subscriber of path.
// Callers must hold s.mu.
func (s *Store) broadcastLocked(path string) {
	if len(s.subs[path]) == 0 {
		return
	}
	snap := s.snapshotLocked(path)
	for _, sub := range s.subs[path] {
		sub.push(docstore.Update{Docs: snap})
	}
}

type subscription struct {
	store  *Store
	path   string
	ch     chan docstore.Update
	closed bool
}

// push delivers an update with latest-wins semantics: a pending undelivered
// snapshot is replaced rather than queued.
func (sub *subscription) push(u docstore.Update) {
	for {
		select {
		case sub.ch <- u:
			return
		default:
		}
		// Drop the stale pending update and retry.
		select {
		case <-sub.ch:
		default:
		}
	}
}

func (sub *subscription) Updates() <-chan docstore.Update {
	return sub.ch
}

func (sub *subscription) Close() {
	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true

	subs := s.subs[sub.path]
	for i, candidate := range subs {
		if candidate == sub {
			s.subs[sub.path] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	close(sub.ch)
}
