// Package fs provides a filesystem-based docstore.Store. Each document is a
// JSON file under <baseDir>/<collection path>/, and subscriptions poll the
// directory for changes.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mjaros/listkeeper/internal/docstore"
)

// Store is a filesystem-based implementation of docstore.Store.
type Store struct {
	baseDir      string
	pollInterval time.Duration
	mu           sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithPollInterval overrides the subscription poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) { s.pollInterval = d }
}

// NewStore creates a new filesystem store rooted at baseDir.
func NewStore(baseDir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	s := &Store{baseDir: baseDir, pollInterval: docstore.DefaultPollInterval}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) collectionDir(path string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(path))
}

func (s *Store) docPath(path, id string) string {
	return filepath.Join(s.collectionDir(path), fmt.Sprintf("%s.json", id))
}

// Put writes the full document as a JSON file.
func (s *Store) Put(ctx context.Context, path, id string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.collectionDir(path), 0755); err != nil {
		return fmt.Errorf("failed to create collection directory: %w", err)
	}
	if err := os.WriteFile(s.docPath(path, id), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Merge overlays fields onto the existing document file.
func (s *Store) Merge(ctx context.Context, path, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := os.ReadFile(s.docPath(path, id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read file: %w", err)
	}

	merged, err := docstore.MergeFields(existing, fields)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.collectionDir(path), 0755); err != nil {
		return fmt.Errorf("failed to create collection directory: %w", err)
	}
	if err := os.WriteFile(s.docPath(path, id), merged, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Delete removes the document file. Missing documents are a no-op.
func (s *Store) Delete(ctx context.Context, path, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.docPath(path, id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// Load scans the collection directory and returns a snapshot sorted by id.
func (s *Store) Load(ctx context.Context, path string) (docstore.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.collectionDir(path))
	if err != nil {
		if os.IsNotExist(err) {
			return docstore.Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	snap := make(docstore.Snapshot, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.collectionDir(path), entry.Name()))
		if err != nil {
			// A document deleted mid-scan is not an error.
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		snap = append(snap, docstore.Document{ID: id, Data: data})
	}

	sort.Slice(snap, func(i, j int) bool { return snap[i].ID < snap[j].ID })
	return snap, nil
}

// Subscribe polls the collection directory for changes.
func (s *Store) Subscribe(ctx context.Context, path string) (docstore.Subscription, error) {
	return docstore.NewPollingSubscription(ctx, s.pollInterval, func(ctx context.Context) (docstore.Snapshot, error) {
		return s.Load(ctx, path)
	}), nil
}
