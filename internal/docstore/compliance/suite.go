// Package compliance holds the conformance test suite every docstore.Store
// backend must pass.
package compliance

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjaros/listkeeper/internal/docstore"
)

const (
	waitTimeout  = 5 * time.Second
	waitInterval = 20 * time.Millisecond
)

type testDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// RunStoreComplianceTests runs a standard set of tests against a Store
// implementation. setup returns a fresh store plus a teardown function.
func RunStoreComplianceTests(t *testing.T, setup func(t *testing.T) (docstore.Store, func())) {
	t.Run("PutAndLoad", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		path := testPath()

		doc := testDoc{ID: "d1", Name: "first"}
		require.NoError(t, store.Put(ctx, path, doc.ID, doc))

		snap, err := store.Load(ctx, path)
		require.NoError(t, err)
		require.Len(t, snap, 1)
		assert.Equal(t, "d1", snap[0].ID)

		var fetched testDoc
		require.NoError(t, json.Unmarshal(snap[0].Data, &fetched))
		assert.Equal(t, doc, fetched)
	})

	t.Run("PutOverwritesWholeDocument", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		path := testPath()

		require.NoError(t, store.Put(ctx, path, "d1", testDoc{ID: "d1", Name: "first", Done: true}))
		require.NoError(t, store.Put(ctx, path, "d1", testDoc{ID: "d1", Name: "second"}))

		snap, err := store.Load(ctx, path)
		require.NoError(t, err)
		require.Len(t, snap, 1)

		var fetched testDoc
		require.NoError(t, json.Unmarshal(snap[0].Data, &fetched))
		assert.Equal(t, "second", fetched.Name)
		assert.False(t, fetched.Done)
	})

	t.Run("MergeReplacesOnlyGivenFields", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		path := testPath()

		require.NoError(t, store.Put(ctx, path, "d1", testDoc{ID: "d1", Name: "first"}))
		require.NoError(t, store.Merge(ctx, path, "d1", map[string]any{"done": true}))

		snap, err := store.Load(ctx, path)
		require.NoError(t, err)
		require.Len(t, snap, 1)

		var fetched testDoc
		require.NoError(t, json.Unmarshal(snap[0].Data, &fetched))
		assert.Equal(t, "first", fetched.Name)
		assert.True(t, fetched.Done)
	})

	t.Run("Delete", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		path := testPath()

		require.NoError(t, store.Put(ctx, path, "d1", testDoc{ID: "d1", Name: "doomed"}))
		require.NoError(t, store.Delete(ctx, path, "d1"))

		snap, err := store.Load(ctx, path)
		require.NoError(t, err)
		assert.Empty(t, snap)
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()

		assert.NoError(t, store.Delete(context.Background(), testPath(), "ghost"))
	})

	t.Run("PathIsolation", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		pathA := testPath()
		pathB := testPath()

		require.NoError(t, store.Put(ctx, pathA, "d1", testDoc{ID: "d1", Name: "a"}))

		snap, err := store.Load(ctx, pathB)
		require.NoError(t, err)
		assert.Empty(t, snap)
	})

	t.Run("SubscribeDeliversInitialSnapshot", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		path := testPath()

		require.NoError(t, store.Put(ctx, path, "d1", testDoc{ID: "d1", Name: "pre"}))

		sub, err := store.Subscribe(ctx, path)
		require.NoError(t, err)
		defer sub.Close()

		waitForSnapshot(t, sub, func(snap docstore.Snapshot) bool {
			return len(snap) == 1 && snap[0].ID == "d1"
		})
	})

	t.Run("SubscribeSeesMutations", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		path := testPath()

		sub, err := store.Subscribe(ctx, path)
		require.NoError(t, err)
		defer sub.Close()

		waitForSnapshot(t, sub, func(snap docstore.Snapshot) bool {
			return len(snap) == 0
		})

		require.NoError(t, store.Put(ctx, path, "d1", testDoc{ID: "d1", Name: "live"}))
		waitForSnapshot(t, sub, func(snap docstore.Snapshot) bool {
			return len(snap) == 1
		})

		require.NoError(t, store.Delete(ctx, path, "d1"))
		waitForSnapshot(t, sub, func(snap docstore.Snapshot) bool {
			return len(snap) == 0
		})
	})

	t.Run("CloseStopsUpdates", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()
		path := testPath()

		sub, err := store.Subscribe(ctx, path)
		require.NoError(t, err)

		sub.Close()
		// Close again must be safe.
		sub.Close()

		require.Eventually(t, func() bool {
			_, open := <-sub.Updates()
			return !open
		}, waitTimeout, waitInterval)
	})
}

// waitForSnapshot reads updates until one satisfies cond or the timeout
// expires.
func waitForSnapshot(t *testing.T, sub docstore.Subscription, cond func(docstore.Snapshot) bool) {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case u, open := <-sub.Updates():
			require.True(t, open, "subscription closed while waiting for snapshot")
			require.NoError(t, u.Err)
			if cond(u.Docs) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

// testPath gives every subtest an isolated collection.
func testPath() string {
	return "users/" + uuid.New().String() + "/docs"
}
