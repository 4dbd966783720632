package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/dynarchive"
)

// querier is satisfied by *sql.DB, *sql.Tx and *DB.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// formatTime formats a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// nullable converts an optional value into a bind argument.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// subtreeBounds returns the half-open range [lo, hi) of paths strictly below
// path. Under binary collation every descendant path starts with path+"/",
// and '0' is the byte right after '/'.
func subtreeBounds(path string) (lo, hi string) {
	return path + "/", path + "0"
}

// subtreeClause matches the node at a path and all of its descendants.
// It takes the arguments returned by subtreeArgs.
const subtreeClause = "(n.path = ? OR (n.path >= ? AND n.path < ?))"

func subtreeArgs(path string) []any {
	lo, hi := subtreeBounds(path)
	return []any{path, lo, hi}
}

// nodeColumns lists node columns in the order scanNode expects.
const nodeColumns = `n.id, n.document_id, n.parent_id, n.content, n.note, n.created, n.modified,
	n.sort_order, n.depth, n.path, n.checked, n.color, n.child_count`

// scanNode scans a row starting with nodeColumns. Extra destinations are
// scanned from the columns that follow.
func scanNode(s scanner, extra ...any) (*dynarchive.Node, error) {
	var n dynarchive.Node
	var parentID sql.NullString
	var checked sql.NullBool
	var color sql.NullInt64

	dest := []any{&n.ID, &n.DocumentID, &parentID, &n.Content, &n.Note, &n.Created, &n.Modified,
		&n.SortOrder, &n.Depth, &n.Path, &checked, &color, &n.ChildCount}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	if checked.Valid {
		n.Checked = dynarchive.CheckedFromBool(&checked.Bool)
	}
	if color.Valid {
		n.Color = &color.Int64
	}
	return &n, nil
}

// scanNodes scans all rows of a node query.
func scanNodes(rows *sql.Rows) ([]*dynarchive.Node, error) {
	defer rows.Close()

	var nodes []*dynarchive.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// findDocumentByID looks up a single document.
func findDocumentByID(ctx context.Context, q querier, id string) (*dynarchive.Document, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, title, filename, version, node_count, imported_at
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, dynarchive.Errorf(dynarchive.ENOTFOUND, "document %q not found", id)
	}
	return doc, err
}

// scanDocument scans a row of document columns.
func scanDocument(s scanner) (*dynarchive.Document, error) {
	var doc dynarchive.Document
	var version sql.NullInt64
	var importedAt string

	if err := s.Scan(&doc.ID, &doc.Title, &doc.Filename, &version, &doc.NodeCount, &importedAt); err != nil {
		return nil, err
	}

	if version.Valid {
		doc.Version = &version.Int64
	}

	var err error
	doc.ImportedAt, err = parseRFC3339(importedAt, "imported_at")
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
