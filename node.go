package dynarchive

import (
	"context"
	"encoding/json"
	"time"
)

// Checked is the checkbox state of a node.
type Checked int

// Checked constants. CheckedNone means the node is not a checkbox.
const (
	CheckedNone Checked = iota
	CheckedFalse
	CheckedTrue
)

// CheckedFromBool converts an optional raw checkbox flag.
func CheckedFromBool(b *bool) Checked {
	switch {
	case b == nil:
		return CheckedNone
	case *b:
		return CheckedTrue
	default:
		return CheckedFalse
	}
}

// Bool returns the checkbox state as an optional bool.
func (c Checked) Bool() *bool {
	if c == CheckedNone {
		return nil
	}
	v := c == CheckedTrue
	return &v
}

// MarshalJSON encodes the state as null, false or true.
func (c Checked) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Bool())
}

// UnmarshalJSON decodes null, false or true.
func (c *Checked) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*c = CheckedFromBool(b)
	return nil
}

// Node represents a single element of a document tree.
//
// Path is the chain of ancestor IDs ending with the node's own ID, e.g.
// "/root/a/b". It is used both as a key and as a prefix locator for subtrees.
type Node struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"documentId"`
	ParentID   *string `json:"parentId"`
	Content    string  `json:"content"`
	Note       string  `json:"note"`
	Created    int64   `json:"created"`
	Modified   int64   `json:"modified"`
	SortOrder  int     `json:"sortOrder"`
	Depth      int     `json:"depth"`
	Path       string  `json:"path"`
	Checked    Checked `json:"checked"`
	Color      *int64  `json:"color,omitempty"`
	ChildCount int     `json:"childCount"`
}

// ModifiedAt returns the modification time.
func (n *Node) ModifiedAt() time.Time {
	return time.UnixMilli(n.Modified).UTC()
}

// CreatedAt returns the creation time.
func (n *Node) CreatedAt() time.Time {
	return time.UnixMilli(n.Created).UTC()
}

// NodeService represents a service for point lookups over nodes.
type NodeService interface {
	// FindNodeByID retrieves a node. When documentID is nil the first node
	// with the ID in any document is returned.
	// Returns ENOTFOUND if node does not exist.
	FindNodeByID(ctx context.Context, documentID *string, id string) (*Node, error)

	// FindRecentChanges returns nodes ordered by modification time, newest
	// first, along with the total number of matches ignoring pagination.
	FindRecentChanges(ctx context.Context, filter RecentFilter) ([]*RecentChange, int, error)
}

// RecentFilter represents a filter for FindRecentChanges.
type RecentFilter struct {
	DocumentID *string    `json:"documentId"`
	Since      *time.Time `json:"since"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecentChange is a recently modified node.
type RecentChange struct {
	Node          *Node  `json:"node"`
	DocumentTitle string `json:"documentTitle"`
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
