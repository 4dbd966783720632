package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// Compile-time interface verification.
var _ dynarchive.TreeService = (*TreeService)(nil)

// TreeService implements dynarchive.TreeService using SQLite.
type TreeService struct {
	db *DB
}

// NewTreeService creates a new TreeService.
func NewTreeService(db *DB) *TreeService {
	return &TreeService{db: db}
}

// Breadcrumbs returns the ancestors of the node at path, root first.
func (s *TreeService) Breadcrumbs(ctx context.Context, documentID, path string) ([]*dynarchive.Breadcrumb, error) {
	ids := dynarchive.AncestorIDs(path)
	if len(ids) == 0 {
		return []*dynarchive.Breadcrumb{}, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, documentID)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, depth FROM nodes WHERE document_id = ? AND id IN ("+placeholders+") ORDER BY depth",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crumbs := []*dynarchive.Breadcrumb{}
	for rows.Next() {
		var c dynarchive.Breadcrumb
		if err := rows.Scan(&c.NodeID, &c.Content, &c.Depth); err != nil {
			return nil, err
		}
		crumbs = append(crumbs, &c)
	}
	return crumbs, rows.Err()
}

// Children returns up to limit direct children ordered by sort order.
// A limit of zero or less returns all children.
func (s *TreeService) Children(ctx context.Context, documentID, parentID string, limit int) ([]*dynarchive.Node, error) {
	var query strings.Builder
	args := []any{documentID, parentID}

	query.WriteString("SELECT " + nodeColumns + " FROM nodes n WHERE n.document_id = ? AND n.parent_id = ? ORDER BY n.sort_order")
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []*dynarchive.Node{}
	}
	return nodes, nil
}

// Siblings returns up to count siblings on each side of sortOrder.
func (s *TreeService) Siblings(ctx context.Context, documentID string, parentID *string, sortOrder, count int) (before, after []*dynarchive.Node, err error) {
	before, after = []*dynarchive.Node{}, []*dynarchive.Node{}
	if parentID == nil || count <= 0 {
		return before, after, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes n WHERE n.document_id = ? AND n.parent_id = ? AND n.sort_order < ? ORDER BY n.sort_order DESC LIMIT ?",
		documentID, *parentID, sortOrder, count,
	)
	if err != nil {
		return nil, nil, err
	}
	desc, err := scanNodes(rows)
	if err != nil {
		return nil, nil, err
	}
	for i := len(desc) - 1; i >= 0; i-- {
		before = append(before, desc[i])
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes n WHERE n.document_id = ? AND n.parent_id = ? AND n.sort_order > ? ORDER BY n.sort_order LIMIT ?",
		documentID, *parentID, sortOrder, count,
	)
	if err != nil {
		return nil, nil, err
	}
	asc, err := scanNodes(rows)
	if err != nil {
		return nil, nil, err
	}
	after = append(after, asc...)

	return before, after, nil
}

// NodeContext returns a node with its breadcrumbs, siblings and children.
func (s *TreeService) NodeContext(ctx context.Context, documentID, nodeID string, siblingCount, childLimit int) (*dynarchive.NodeContext, error) {
	doc, err := findDocumentByID(ctx, s.db, documentID)
	if err != nil {
		return nil, err
	}
	node, err := findNodeByID(ctx, s.db, &documentID, nodeID)
	if err != nil {
		return nil, err
	}

	crumbs, err := s.Breadcrumbs(ctx, documentID, node.Path)
	if err != nil {
		return nil, err
	}
	before, after, err := s.Siblings(ctx, documentID, node.ParentID, node.SortOrder, siblingCount)
	if err != nil {
		return nil, err
	}
	children, err := s.Children(ctx, documentID, node.ID, childLimit)
	if err != nil {
		return nil, err
	}

	return &dynarchive.NodeContext{
		Node:           node,
		Document:       doc,
		Breadcrumbs:    crumbs,
		Children:       children,
		SiblingsBefore: before,
		SiblingsAfter:  after,
	}, nil
}

// Subtree returns the anchor and its subtree down to maxDepth levels below
// it, in pre-order.
func (s *TreeService) Subtree(ctx context.Context, documentID, nodeID string, maxDepth *int) (*dynarchive.Node, []*dynarchive.Node, error) {
	anchor, err := findNodeByID(ctx, s.db, &documentID, nodeID)
	if err != nil {
		return nil, nil, err
	}

	var query strings.Builder
	args := []any{documentID}

	query.WriteString("SELECT " + nodeColumns + " FROM nodes n WHERE n.document_id = ? AND " + subtreeClause)
	args = append(args, subtreeArgs(anchor.Path)...)
	if maxDepth != nil {
		query.WriteString(" AND n.depth <= ?")
		args = append(args, anchor.Depth+*maxDepth)
	}
	query.WriteString(" ORDER BY n.path, n.sort_order")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, nil, err
	}
	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, nil, err
	}

	return anchor, dynarchive.Preorder(anchor, nodes), nil
}

// RenderSubtree renders a subtree as indented text. A missing anchor
// renders as the empty string.
func (s *TreeService) RenderSubtree(ctx context.Context, documentID, nodeID string, opts dynarchive.RenderOptions) (string, error) {
	anchor, nodes, err := s.Subtree(ctx, documentID, nodeID, opts.MaxDepth)
	if dynarchive.ErrorCode(err) == dynarchive.ENOTFOUND {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return dynarchive.RenderSubtree(anchor, nodes, opts), nil
}
