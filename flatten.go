package dynarchive

import (
	"sort"
)

// RootID is the ID of the synthetic root node of every document.
const RootID = "root"

// flattenItem is a queued visit of the breadth-first traversal.
type flattenItem struct {
	id        string
	parentID  *string
	depth     int
	prefix    string
	sortOrder int
}

// Flatten converts a raw document tree into a document summary and flat node
// records with depth, path and sort order computed. Nodes are returned in
// breadth-first order, so every ancestor precedes its descendants.
//
// Any raw node that cannot be reached from the root fails the whole document
// with an EINVALID error listing the orphaned IDs in sorted order. The raw
// document is not modified.
func Flatten(raw *RawDocument, filename string) (*Document, []*Node, error) {
	if raw.FileID == "" {
		return nil, nil, Errorf(EINVALID, "document file ID required")
	}
	if _, ok := raw.Nodes[RootID]; !ok {
		return nil, nil, Errorf(EINVALID, "document %q has no root node", raw.FileID)
	}

	nodes := make([]*Node, 0, len(raw.Nodes))
	visited := make(map[string]struct{}, len(raw.Nodes))

	queue := []flattenItem{{id: RootID}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		rn, ok := raw.Nodes[item.id]
		if !ok {
			return nil, nil, Errorf(EINVALID, "node %q listed as child of %q does not exist", item.id, *item.parentID)
		}
		if _, seen := visited[item.id]; seen {
			return nil, nil, Errorf(EINVALID, "node %q appears more than once in the tree", item.id)
		}
		visited[item.id] = struct{}{}

		path := item.prefix + "/" + item.id
		nodes = append(nodes, &Node{
			ID:         item.id,
			DocumentID: raw.FileID,
			ParentID:   item.parentID,
			Content:    rn.Content,
			Note:       rn.Note,
			Created:    rn.Created,
			Modified:   rn.Modified,
			SortOrder:  item.sortOrder,
			Depth:      item.depth,
			Path:       path,
			Checked:    CheckedFromBool(rn.Checked),
			Color:      rn.Color,
			ChildCount: len(rn.Children),
		})

		parentID := item.id
		for i, childID := range rn.Children {
			queue = append(queue, flattenItem{
				id:        childID,
				parentID:  &parentID,
				depth:     item.depth + 1,
				prefix:    path,
				sortOrder: i,
			})
		}
	}

	if len(visited) != len(raw.Nodes) {
		var orphans []string
		for id := range raw.Nodes {
			if _, ok := visited[id]; !ok {
				orphans = append(orphans, id)
			}
		}
		sort.Strings(orphans)
		return nil, nil, Errorf(EINVALID, "orphaned nodes in document %q: %q", raw.FileID, orphans)
	}

	doc := &Document{
		ID:        raw.FileID,
		Title:     raw.Title,
		Filename:  filename,
		Version:   raw.Version,
		NodeCount: len(raw.Nodes),
	}
	return doc, nodes, nil
}
