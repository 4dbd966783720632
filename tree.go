package dynarchive

import (
	"context"
	"sort"
	"strings"
)

// Breadcrumb is a single ancestor of a node.
type Breadcrumb struct {
	NodeID  string `json:"nodeId"`
	Content string `json:"content"`
	Depth   int    `json:"depth"`
}

// FormatBreadcrumbs joins ancestors root-first, e.g. "Notes > Python".
// Long ancestor contents are shortened to 40 characters.
func FormatBreadcrumbs(crumbs []*Breadcrumb) string {
	parts := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		parts = append(parts, Truncate(c.Content, 40))
	}
	return strings.Join(parts, " > ")
}

// AncestorIDs splits a node path into the IDs of the node's ancestors,
// root first. The node's own ID is excluded.
func AncestorIDs(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) <= 1 {
		return nil
	}
	return parts[:len(parts)-1]
}

// NodeContext is a node together with its surroundings in the tree.
type NodeContext struct {
	Node           *Node         `json:"node"`
	Document       *Document     `json:"document"`
	Breadcrumbs    []*Breadcrumb `json:"breadcrumbs"`
	Children       []*Node       `json:"children"`
	SiblingsBefore []*Node       `json:"siblingsBefore"`
	SiblingsAfter  []*Node       `json:"siblingsAfter"`
}

// TreeService represents a service for navigating document trees.
type TreeService interface {
	// Breadcrumbs returns the ancestors of the node at path, root first.
	// The root node has no breadcrumbs.
	Breadcrumbs(ctx context.Context, documentID, path string) ([]*Breadcrumb, error)

	// Children returns up to limit direct children ordered by sort order.
	Children(ctx context.Context, documentID, parentID string, limit int) ([]*Node, error)

	// Siblings returns up to count siblings before and after the position
	// sortOrder under parentID, both in ascending sort order. A nil parent
	// means the root, which has no siblings.
	Siblings(ctx context.Context, documentID string, parentID *string, sortOrder, count int) (before, after []*Node, err error)

	// NodeContext returns a node with breadcrumbs, siblings and children.
	// Returns ENOTFOUND if node does not exist.
	NodeContext(ctx context.Context, documentID, nodeID string, siblingCount, childLimit int) (*NodeContext, error)

	// Subtree returns the anchor node and every node of its subtree down to
	// maxDepth levels below it (unlimited when nil), in pre-order.
	// Returns ENOTFOUND if the anchor does not exist.
	Subtree(ctx context.Context, documentID, nodeID string, maxDepth *int) (*Node, []*Node, error)

	// RenderSubtree renders a subtree as indented text. A missing anchor
	// renders as the empty string.
	RenderSubtree(ctx context.Context, documentID, nodeID string, opts RenderOptions) (string, error)
}

// Preorder orders subtree nodes depth-first from anchor, with siblings in
// sort order. Nodes not connected to anchor are dropped.
func Preorder(anchor *Node, nodes []*Node) []*Node {
	children := make(map[string][]*Node)
	for _, n := range nodes {
		if n.ParentID == nil || n.ID == anchor.ID {
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}
	for _, c := range children {
		sort.SliceStable(c, func(i, j int) bool { return c[i].SortOrder < c[j].SortOrder })
	}

	out := make([]*Node, 0, len(nodes))
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, c := range children[n.ID] {
			walk(c)
		}
	}
	walk(anchor)
	return out
}
