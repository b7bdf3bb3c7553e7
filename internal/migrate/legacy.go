// Package migrate performs the one-shot import of a legacy local database
// into the remote document store. Early releases kept all data in a local
// SQLite file; this moves that data under the signed-in owner the first
// time they connect with an empty remote workspace.
package migrate

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/mjaros/listkeeper/internal/docstore"
)

// legacyTable is the single table the legacy database kept documents in.
const legacyTable = "legacy_documents"

// knownCollections are the collections eligible for import. Rows with any
// other collection name are left in place and reported.
var knownCollections = map[string]bool{
	"categories":   true,
	"lists":        true,
	"notes":        true,
	"sessions":     true,
	"combinations": true,
}

// Result summarizes an import run.
type Result struct {
	// Skipped is true when the remote workspace already had data and the
	// import did not run.
	Skipped bool
	// Imported counts documents written to the remote store.
	Imported int
	// Unknown counts rows left behind because their collection is not
	// recognized.
	Unknown int
}

// Import moves every document from the legacy database at dbPath into the
// remote store under the given owner, then clears the imported rows. The
// import only runs when the owner's remote categories collection is empty,
// which makes re-running it after a completed import a no-op.
func Import(ctx context.Context, store docstore.Store, dbPath, owner string) (Result, error) {
	if owner == "" {
		return Result{}, fmt.Errorf("owner is required")
	}

	remote, err := store.Load(ctx, collectionPath(owner, "categories"))
	if err != nil {
		return Result{}, fmt.Errorf("failed to check remote workspace: %w", err)
	}
	if len(remote) > 0 {
		slog.InfoContext(ctx, "remote workspace not empty, skipping legacy import", "owner", owner)
		return Result{Skipped: true}, nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open legacy database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT collection, id, doc FROM "+legacyTable)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read legacy documents: %w", err)
	}
	defer rows.Close()

	var result Result
	for rows.Next() {
		var collection, id, doc string
		if err := rows.Scan(&collection, &id, &doc); err != nil {
			return result, fmt.Errorf("failed to scan legacy row: %w", err)
		}

		if !knownCollections[collection] {
			slog.WarnContext(ctx, "skipping unknown legacy collection", "collection", collection, "id", id)
			result.Unknown++
			continue
		}
		if !json.Valid([]byte(doc)) {
			return result, fmt.Errorf("legacy document %s/%s is not valid JSON", collection, id)
		}

		err := store.Put(ctx, collectionPath(owner, collection), id, json.RawMessage(doc))
		if err != nil {
			return result, fmt.Errorf("failed to import %s/%s: %w", collection, id, err)
		}
		result.Imported++
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("failed to iterate legacy documents: %w", err)
	}

	// Imported rows are removed so a later run with a wiped remote store
	// cannot import them twice. Unknown rows stay for manual inspection.
	deleteQuery := "DELETE FROM " + legacyTable + " WHERE collection IN ('categories','lists','notes','sessions','combinations')"
	if _, err := db.ExecContext(ctx, deleteQuery); err != nil {
		return result, fmt.Errorf("failed to clear imported legacy documents: %w", err)
	}

	slog.InfoContext(ctx, "legacy import complete", "owner", owner, "imported", result.Imported, "unknown", result.Unknown)
	return result, nil
}

func collectionPath(owner, collection string) string {
	return "users/" + owner + "/" + collection
}
