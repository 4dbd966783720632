package dynarchive

import (
	"fmt"
	"strings"
)

// indentUnit is the indentation of one tree level.
const indentUnit = "    "

// RenderOptions controls subtree rendering.
type RenderOptions struct {
	// MaxDepth limits rendering to this many levels below the anchor.
	// Nil renders the whole subtree.
	MaxDepth *int

	IncludeNotes bool
}

// RenderSubtree renders anchor and its subtree nodes as an indented bullet
// list. Nodes cut off by MaxDepth are summarized by a marker line beneath the
// last rendered level, e.g. "- ... (3 more children, id=abc)".
func RenderSubtree(anchor *Node, nodes []*Node, opts RenderOptions) string {
	var b strings.Builder
	for _, n := range Preorder(anchor, nodes) {
		rel := n.Depth - anchor.Depth
		if opts.MaxDepth != nil && rel > *opts.MaxDepth {
			continue
		}
		indent := strings.Repeat(indentUnit, rel)

		lines := strings.Split(n.Content, "\n")
		b.WriteString(indent + bullet(n.Checked) + lines[0] + "\n")
		for _, line := range lines[1:] {
			b.WriteString(indent + "  " + line + "\n")
		}

		if opts.IncludeNotes && n.Note != "" {
			for _, line := range strings.Split(n.Note, "\n") {
				b.WriteString(indent + "  > " + line + "\n")
			}
		}

		if opts.MaxDepth != nil && rel == *opts.MaxDepth && n.ChildCount > 0 {
			noun := "children"
			if n.ChildCount == 1 {
				noun = "child"
			}
			fmt.Fprintf(&b, "%s%s- ... (%d more %s, id=%s)\n", indent, indentUnit, n.ChildCount, noun, n.ID)
		}
	}
	return b.String()
}

func bullet(c Checked) string {
	switch c {
	case CheckedTrue:
		return "- [x] "
	case CheckedFalse:
		return "- [ ] "
	default:
		return "- "
	}
}

// TreeNode is a node of a structured subtree.
type TreeNode struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	Note       string      `json:"note"`
	Checked    Checked     `json:"checked"`
	ChildCount int         `json:"childCount"`
	Children   []*TreeNode `json:"children,omitempty"`
}

// BuildTree nests flat subtree nodes under anchor. Nodes keep ChildCount, so
// callers can tell where children were elided by a depth limit.
func BuildTree(anchor *Node, nodes []*Node) *TreeNode {
	byID := make(map[string]*TreeNode, len(nodes))
	var root *TreeNode
	for _, n := range Preorder(anchor, nodes) {
		t := &TreeNode{
			ID:         n.ID,
			Content:    n.Content,
			Note:       n.Note,
			Checked:    n.Checked,
			ChildCount: n.ChildCount,
		}
		byID[n.ID] = t
		if root == nil {
			root = t
			continue
		}
		parent := byID[*n.ParentID]
		parent.Children = append(parent.Children, t)
	}
	return root
}
