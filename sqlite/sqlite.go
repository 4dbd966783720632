// Package sqlite provides SQLite-based storage implementations for dynarchive services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/fwojciec/dynarchive"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SchemaVersion is the version stamped into metadata when the schema is created.
const SchemaVersion = 1

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Path returns the database path.
func (db *DB) Path() string {
	return db.path
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	// This also keeps an in-memory database alive for the life of the DB.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL lets readers see the last committed state while an import runs.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.bootstrap(context.Background()); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// Tx runs fn inside a transaction. The transaction is committed if fn
// returns nil and rolled back otherwise, including when fn panics.
func (db *DB) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SchemaVersion returns the schema version recorded in metadata, or 0 when
// the database has never been bootstrapped.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var name string
	err := db.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'metadata'",
	).Scan(&name)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var value string
	err = db.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = ?", dynarchive.MetaSchemaVersion,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse schema version %q: %w", value, err)
	}
	return version, nil
}

// bootstrap creates the full schema when no version is recorded. A recorded
// version is assumed to be current; there are no intermediate migrations.
func (db *DB) bootstrap(ctx context.Context) error {
	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != 0 {
		return nil
	}

	return db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return err
		}
		return setMetadata(ctx, tx, dynarchive.MetaSchemaVersion, strconv.Itoa(SchemaVersion))
	})
}

// schema defines all tables. The nodes_fts index is an external-content FTS5
// table kept in step with nodes by triggers, so it reflects committed rows at
// every transaction boundary.
const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		filename TEXT NOT NULL DEFAULT '',
		version INTEGER,
		node_count INTEGER NOT NULL DEFAULT 0,
		imported_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT NOT NULL,
		document_id TEXT NOT NULL REFERENCES documents(id),
		parent_id TEXT,
		content TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		created INTEGER NOT NULL DEFAULT 0,
		modified INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL,
		depth INTEGER NOT NULL,
		path TEXT NOT NULL,
		checked INTEGER,
		color INTEGER,
		child_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (document_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(document_id, parent_id, sort_order);
	CREATE INDEX IF NOT EXISTS idx_nodes_modified ON nodes(modified DESC);
	CREATE INDEX IF NOT EXISTS idx_nodes_path ON nodes(document_id, path);

	CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
		content,
		note,
		content='nodes',
		content_rowid='rowid',
		tokenize='porter unicode61 remove_diacritics 2'
	);

	CREATE TRIGGER IF NOT EXISTS nodes_fts_insert AFTER INSERT ON nodes BEGIN
		INSERT INTO nodes_fts(rowid, content, note)
		VALUES (new.rowid, new.content, new.note);
	END;

	CREATE TRIGGER IF NOT EXISTS nodes_fts_delete AFTER DELETE ON nodes BEGIN
		INSERT INTO nodes_fts(nodes_fts, rowid, content, note)
		VALUES ('delete', old.rowid, old.content, old.note);
	END;

	CREATE TRIGGER IF NOT EXISTS nodes_fts_update AFTER UPDATE ON nodes BEGIN
		INSERT INTO nodes_fts(nodes_fts, rowid, content, note)
		VALUES ('delete', old.rowid, old.content, old.note);
		INSERT INTO nodes_fts(rowid, content, note)
		VALUES (new.rowid, new.content, new.note);
	END;

	CREATE TABLE IF NOT EXISTS sync_state (
		document_id TEXT PRIMARY KEY,
		version INTEGER,
		last_import_at TEXT NOT NULL,
		source_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`
