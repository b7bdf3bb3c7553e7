// Package docstore defines a path-addressable document store with realtime
// full-snapshot subscriptions. Collections are flat: one JSON document per
// id under a collection path such as "users/u1/lists".
package docstore

import (
	"context"
	"encoding/json"
)

// Document is one entry in a collection snapshot.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Snapshot is the full contents of a collection at one point in time.
type Snapshot []Document

// Decode unmarshals the snapshot into a slice of T.
func Decode[T any](s Snapshot) ([]T, error) {
	out := make([]T, 0, len(s))
	for _, doc := range s {
		var v T
		if err := json.Unmarshal(doc.Data, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Update is a single push from a subscription: a full snapshot, or an error
// from the underlying channel. A push with Err set carries no snapshot and
// does not invalidate previously delivered data.
type Update struct {
	Docs Snapshot
	Err  error
}

// Subscription is a realtime stream of full-collection snapshots. Every
// push fully supersedes the previous one; there is no incremental diffing.
type Subscription interface {
	// Updates yields the current snapshot shortly after subscribing and a
	// fresh snapshot after every observed change. The channel is closed by
	// Close.
	Updates() <-chan Update

	// Close tears down the subscription and releases its resources.
	// Safe to call more than once.
	Close()
}

// Store is a path-addressable document store. Put writes a whole document,
// Merge overlays top-level fields onto an existing document, Delete removes
// one document. Delete of a missing document is not an error.
type Store interface {
	Put(ctx context.Context, path, id string, doc any) error
	Merge(ctx context.Context, path, id string, fields map[string]any) error
	Delete(ctx context.Context, path, id string) error

	// Load returns a one-shot snapshot of the collection.
	Load(ctx context.Context, path string) (Snapshot, error)

	// Subscribe opens a realtime subscription on the collection.
	Subscribe(ctx context.Context, path string) (Subscription, error)
}
