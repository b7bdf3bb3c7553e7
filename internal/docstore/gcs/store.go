// Package gcs provides a GCS-backed docstore.Store. Each document is one
// JSON object named "<collection path>/<id>.json"; subscriptions poll the
// bucket prefix for changes.
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/mjaros/listkeeper/internal/docstore"
)

// Store is a GCS-based implementation of docstore.Store.
type Store struct {
	client       *storage.Client
	bucket       string
	pollInterval time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPollInterval overrides the subscription poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) { s.pollInterval = d }
}

// NewStore creates a new GCS store. It assumes the client is authenticated
// (e.g. via GOOGLE_APPLICATION_CREDENTIALS).
func NewStore(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	s := &Store{
		client:       client,
		bucket:       bucketName,
		pollInterval: docstore.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) objectName(path, id string) string {
	return fmt.Sprintf("%s/%s.json", path, id)
}

// Put writes the full document as a JSON object.
func (s *Store) Put(ctx context.Context, path, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return s.write(ctx, path, id, data)
}

// Merge overlays fields onto the existing document object.
func (s *Store) Merge(ctx context.Context, path, id string, fields map[string]any) error {
	existing, err := s.read(ctx, path, id)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}

	merged, err := docstore.MergeFields(existing, fields)
	if err != nil {
		return err
	}
	return s.write(ctx, path, id, merged)
}

// Delete removes the document object. Missing documents are a no-op.
func (s *Store) Delete(ctx context.Context, path, id string) error {
	obj := s.client.Bucket(s.bucket).Object(s.objectName(path, id))
	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Load scans the collection prefix and returns a snapshot sorted by id.
func (s *Store) Load(ctx context.Context, path string) (docstore.Snapshot, error) {
	prefix := path + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	snap := docstore.Snapshot{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate objects: %w", err)
		}

		rest := strings.TrimPrefix(attrs.Name, prefix)
		if strings.Contains(rest, "/") || !strings.HasSuffix(rest, ".json") {
			continue
		}
		id := strings.TrimSuffix(rest, ".json")

		data, err := s.read(ctx, path, id)
		if err != nil {
			// An object deleted mid-scan is not an error.
			if errors.Is(err, storage.ErrObjectNotExist) {
				continue
			}
			return nil, err
		}
		snap = append(snap, docstore.Document{ID: id, Data: data})
	}

	sort.Slice(snap, func(i, j int) bool { return snap[i].ID < snap[j].ID })
	return snap, nil
}

// Subscribe polls the collection prefix for changes.
func (s *Store) Subscribe(ctx context.Context, path string) (docstore.Subscription, error) {
	return docstore.NewPollingSubscription(ctx, s.pollInterval, func(ctx context.Context) (docstore.Snapshot, error) {
		return s.Load(ctx, path)
	}), nil
}

func (s *Store) read(ctx context.Context, path, id string) (json.RawMessage, error) {
	obj := s.client.Bucket(s.bucket).Object(s.objectName(path, id))
	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, storage.ErrObjectNotExist
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, path, id string, data []byte) error {
	obj := s.client.Bucket(s.bucket).Object(s.objectName(path, id))
	w := obj.NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}
