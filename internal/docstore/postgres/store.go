// Package postgres provides a PostgreSQL-backed docstore.Store. Documents
// live in a single jsonb table keyed by (path, id); realtime subscriptions
// use LISTEN/NOTIFY with the collection path as payload.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"github.com/pressly/goose/v3"

	"github.com/mjaros/listkeeper/internal/docstore"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// notifyChannel carries the collection path of every mutation.
const notifyChannel = "listkeeper_documents"

// Store is a PostgreSQL-backed implementation of docstore.Store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to PostgreSQL, runs migrations, and returns the store.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// runMigrations applies embedded goose migrations over database/sql.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Put writes the full document keyed by id.
func (s *Store) Put(ctx context.Context, path, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (path, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (path, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		path, id, data)
	if err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}

	return s.notify(ctx, path)
}

// Merge overlays fields onto the existing document using jsonb
// concatenation, which replaces top-level keys only.
func (s *Store) Merge(ctx context.Context, path, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (path, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (path, id)
		DO UPDATE SET doc = documents.doc || EXCLUDED.doc, updated_at = now()`,
		path, id, data)
	if err != nil {
		return fmt.Errorf("failed to merge document: %w", err)
	}

	return s.notify(ctx, path)
}

// Delete removes the document by id. Missing documents are a no-op and do
// not wake subscribers.
func (s *Store) Delete(ctx context.Context, path, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE path = $1 AND id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}
	return s.notify(ctx, path)
}

func (s *Store) notify(ctx context.Context, path string) error {
	if _, err := s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, path); err != nil {
		return fmt.Errorf("failed to notify subscribers: %w", err)
	}
	return nil
}

// Load returns a one-shot snapshot of the collection sorted by id.
func (s *Store) Load(ctx context.Context, path string) (docstore.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, doc FROM documents WHERE path = $1 ORDER BY id`, path)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	snap := docstore.Snapshot{}
	for rows.Next() {
		var doc docstore.Document
		var data []byte
		if err := rows.Scan(&doc.ID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Data = json.RawMessage(data)
		snap = append(snap, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return snap, nil
}

// Subscribe opens a LISTEN-backed subscription. A dedicated connection is
// held for the lifetime of the subscription and released on Close.
func (s *Store) Subscribe(ctx context.Context, path string) (docstore.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		cancel()
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	sub := &subscription{
		store:  s,
		path:   path,
		ch:     make(chan docstore.Update, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go sub.run(ctx, conn)
	return sub, nil
}

type subscription struct {
	store  *Store
	path   string
	ch     chan docstore.Update
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (sub *subscription) run(ctx context.Context, conn *pgxpool.Conn) {
	defer close(sub.done)
	defer close(sub.ch)
	defer conn.Release()

	sub.reload(ctx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				sub.push(ctx, docstore.Update{Err: err})
			}
			return
		}
		if notification.Payload != sub.path {
			continue
		}
		sub.reload(ctx)
	}
}

func (sub *subscription) reload(ctx context.Context) {
	snap, err := sub.store.Load(ctx, sub.path)
	if err != nil {
		if ctx.Err() == nil {
			sub.push(ctx, docstore.Update{Err: err})
		}
		return
	}
	sub.push(ctx, docstore.Update{Docs: snap})
}

// push delivers with latest-wins semantics.
func (sub *subscription) push(ctx context.Context, u docstore.Update) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case sub.ch <- u:
			return
		default:
		}
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
	sub.once.Do(func() {
		sub.cancel()
		<-sub.done
	})
}
