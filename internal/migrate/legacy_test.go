package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjaros/listkeeper/internal/docstore/memory"
)

func newLegacyDB(t *testing.T, rows map[string]map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE legacy_documents (collection TEXT NOT NULL, id TEXT NOT NULL, doc TEXT NOT NULL, PRIMARY KEY (collection, id))")
	require.NoError(t, err)

	for collection, docs := range rows {
		for id, doc := range docs {
			_, err = db.Exec("INSERT INTO legacy_documents (collection, id, doc) VALUES (?, ?, ?)", collection, id, doc)
			require.NoError(t, err)
		}
	}
	return path
}

func countLegacyRows(t *testing.T, path string) int {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM legacy_documents").Scan(&n))
	return n
}

func TestImportMovesDocuments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	path := newLegacyDB(t, map[string]map[string]string{
		"categories": {"c1": `{"id":"c1","name":"Home"}`},
		"lists": {
			"l1": `{"id":"l1","name":"Groceries","categoryId":"c1","items":[]}`,
			"l2": `{"id":"l2","name":"Hardware","categoryId":"c1","items":[]}`,
		},
		"notes": {"n1": `{"id":"n1","title":"Call plumber","priority":"high"}`},
	})

	result, err := Import(ctx, store, path, "u1")
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 4, result.Imported)
	assert.Zero(t, result.Unknown)

	categories, err := store.Load(ctx, "users/u1/categories")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "c1", categories[0].ID)

	lists, err := store.Load(ctx, "users/u1/lists")
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	assert.Zero(t, countLegacyRows(t, path), "imported rows should be cleared")
}

func TestImportSkipsWhenRemoteHasData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, "users/u1/categories", "c9", map[string]any{"id": "c9"}))

	path := newLegacyDB(t, map[string]map[string]string{
		"categories": {"c1": `{"id":"c1","name":"Home"}`},
	})

	result, err := Import(ctx, store, path, "u1")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Zero(t, result.Imported)

	assert.Equal(t, 1, countLegacyRows(t, path), "skipped import must leave legacy rows alone")
}

func TestImportLeavesUnknownCollections(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	path := newLegacyDB(t, map[string]map[string]string{
		"lists":    {"l1": `{"id":"l1","name":"Groceries"}`},
		"scratch":  {"x1": `{"id":"x1"}`},
		"drafts":   {"d1": `{"id":"d1"}`},
	})

	result, err := Import(ctx, store, path, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Unknown)

	assert.Equal(t, 2, countLegacyRows(t, path), "unknown rows stay behind")
}

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	path := newLegacyDB(t, map[string]map[string]string{
		"categories": {"c1": `{"id":"c1","name":"Home"}`},
	})

	first, err := Import(ctx, store, path, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	second, err := Import(ctx, store, path, "u1")
	require.NoError(t, err)
	assert.True(t, second.Skipped)
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	path := newLegacyDB(t, map[string]map[string]string{
		"categories": {"c1": `not json`},
	})

	_, err := Import(ctx, store, path, "u1")
	assert.Error(t, err)
}

func TestImportRequiresOwner(t *testing.T) {
	_, err := Import(context.Background(), memory.NewStore(), "ignored.db", "")
	assert.Error(t, err)
}
