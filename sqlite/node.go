package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// Compile-time interface verification.
var _ dynarchive.NodeService = (*NodeService)(nil)

// NodeService implements dynarchive.NodeService using SQLite.
type NodeService struct {
	db *DB
}

// NewNodeService creates a new NodeService.
func NewNodeService(db *DB) *NodeService {
	return &NodeService{db: db}
}

// FindNodeByID retrieves a node, optionally scoped to one document.
func (s *NodeService) FindNodeByID(ctx context.Context, documentID *string, id string) (*dynarchive.Node, error) {
	return findNodeByID(ctx, s.db, documentID, id)
}

func findNodeByID(ctx context.Context, q querier, documentID *string, id string) (*dynarchive.Node, error) {
	query := "SELECT " + nodeColumns + " FROM nodes n WHERE n.id = ?"
	args := []any{id}
	if documentID != nil {
		query += " AND n.document_id = ?"
		args = append(args, *documentID)
	}
	query += " ORDER BY n.document_id LIMIT 1"

	n, err := scanNode(q.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, dynarchive.Errorf(dynarchive.ENOTFOUND, "node %q not found", id)
	}
	return n, err
}

// FindRecentChanges returns nodes ordered by modification time, newest first.
func (s *NodeService) FindRecentChanges(ctx context.Context, filter dynarchive.RecentFilter) ([]*dynarchive.RecentChange, int, error) {
	var where strings.Builder
	var args []any

	where.WriteString(" WHERE 1=1")
	if filter.DocumentID != nil {
		where.WriteString(" AND n.document_id = ?")
		args = append(args, *filter.DocumentID)
	}
	if filter.Since != nil {
		where.WriteString(" AND n.modified >= ?")
		args = append(args, filter.Since.UnixMilli())
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM nodes n"+where.String(), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	var query strings.Builder
	query.WriteString("SELECT " + nodeColumns + ", d.title FROM nodes n JOIN documents d ON d.id = n.document_id")
	query.WriteString(where.String())
	query.WriteString(" ORDER BY n.modified DESC, n.document_id, n.id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	changes := []*dynarchive.RecentChange{}
	for rows.Next() {
		var title string
		n, err := scanNode(rows, &title)
		if err != nil {
			return nil, 0, err
		}
		changes = append(changes, &dynarchive.RecentChange{Node: n, DocumentTitle: title})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return changes, total, nil
}
