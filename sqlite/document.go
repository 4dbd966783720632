package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// Compile-time interface verification.
var (
	_ dynarchive.DocumentService = (*DocumentService)(nil)
	_ dynarchive.DocumentStore   = (*DocumentService)(nil)
)

// DocumentService implements dynarchive.DocumentService and
// dynarchive.DocumentStore using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*dynarchive.Document, error) {
	return findDocumentByID(ctx, s.db, id)
}

// FindDocuments retrieves documents matching the filter.
func (s *DocumentService) FindDocuments(ctx context.Context, filter dynarchive.DocumentFilter) ([]*dynarchive.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, title, filename, version, node_count, imported_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY title ASC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*dynarchive.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// ResolveDocument finds a document by ID, title or filename, preferring an
// exact ID match.
func (s *DocumentService) ResolveDocument(ctx context.Context, ref string) (*dynarchive.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, filename, version, node_count, imported_at
		FROM documents
		WHERE id = ? OR title = ? OR filename = ?
		ORDER BY (id = ?) DESC, (title = ?) DESC, id ASC
		LIMIT 1
	`, ref, ref, ref, ref, ref)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, dynarchive.Errorf(dynarchive.ENOTFOUND, "document %q not found", ref)
	}
	return doc, err
}

// FindSyncState retrieves the sync state recorded for a document.
func (s *DocumentService) FindSyncState(ctx context.Context, documentID string) (*dynarchive.SyncState, error) {
	var state dynarchive.SyncState
	var version sql.NullInt64
	var lastImportAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT document_id, version, last_import_at, source_hash
		FROM sync_state
		WHERE document_id = ?
	`, documentID).Scan(&state.DocumentID, &version, &lastImportAt, &state.SourceHash)

	if err == sql.ErrNoRows {
		return nil, dynarchive.Errorf(dynarchive.ENOTFOUND, "sync state for %q not found", documentID)
	}
	if err != nil {
		return nil, err
	}

	if version.Valid {
		state.Version = &version.Int64
	}
	state.LastImportAt, err = parseRFC3339(lastImportAt, "last_import_at")
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// ReplaceDocument deletes the stored rows of a document and inserts the new
// document, nodes and sync state in one transaction. On any failure the
// transaction is rolled back and the previous rows stay in place. The stored
// import time is taken from state; doc itself is not modified.
func (s *DocumentService) ReplaceDocument(ctx context.Context, doc *dynarchive.Document, nodes []*dynarchive.Node, state *dynarchive.SyncState) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if state.DocumentID != doc.ID {
		return dynarchive.Errorf(dynarchive.EINVALID, "sync state belongs to %q, not %q", state.DocumentID, doc.ID)
	}

	stored := *doc
	stored.ImportedAt = state.LastImportAt

	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE document_id = ?", doc.ID); err != nil {
			return fmt.Errorf("delete nodes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", doc.ID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, title, filename, version, node_count, imported_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, stored.ID, stored.Title, stored.Filename, nullable(stored.Version), stored.NodeCount, formatTime(stored.ImportedAt)); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}

		if err := insertNodes(ctx, tx, nodes); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sync_state (document_id, version, last_import_at, source_hash)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(document_id) DO UPDATE SET
				version = excluded.version,
				last_import_at = excluded.last_import_at,
				source_hash = excluded.source_hash
		`, state.DocumentID, nullable(state.Version), formatTime(state.LastImportAt), state.SourceHash); err != nil {
			return fmt.Errorf("upsert sync state: %w", err)
		}

		return nil
	})
}

// insertNodes inserts nodes using a single prepared statement.
func insertNodes(ctx context.Context, tx *sql.Tx, nodes []*dynarchive.Node) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, document_id, parent_id, content, note, created, modified,
			sort_order, depth, path, checked, color, child_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		if _, err := stmt.ExecContext(ctx,
			n.ID, n.DocumentID, nullable(n.ParentID), n.Content, n.Note, n.Created, n.Modified,
			n.SortOrder, n.Depth, n.Path, nullable(n.Checked.Bool()), nullable(n.Color), n.ChildCount,
		); err != nil {
			return fmt.Errorf("insert node %q: %w", n.ID, err)
		}
	}
	return nil
}
