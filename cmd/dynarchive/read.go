package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/dynarchive"
	"github.com/fwojciec/dynarchive/etree"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	deps.refresh()

	doc, node, err := resolveNode(deps, c.Document, c.NodeID)
	if err != nil {
		return deps.fail(err)
	}

	var maxDepth *int
	if c.Depth >= 0 {
		maxDepth = &c.Depth
	}

	if c.Format == "markdown" {
		out, err := deps.Tree.RenderSubtree(deps.Ctx, doc.ID, node.ID, dynarchive.RenderOptions{
			MaxDepth:     maxDepth,
			IncludeNotes: !c.NoNotes,
		})
		if err != nil {
			return deps.fail(err)
		}
		fmt.Fprint(deps.Stdout, out)
		return nil
	}

	anchor, nodes, err := deps.Tree.Subtree(deps.Ctx, doc.ID, node.ID, maxDepth)
	if err != nil {
		return deps.fail(err)
	}
	tree := dynarchive.BuildTree(anchor, nodes)
	if c.NoNotes {
		stripNotes(tree)
	}

	switch c.Format {
	case "json":
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return deps.fail(err)
		}
		fmt.Fprintln(deps.Stdout, string(data))
	case "opml":
		out, err := etree.EncodeOPML(doc.Title, tree)
		if err != nil {
			return deps.fail(err)
		}
		fmt.Fprintln(deps.Stdout, out)
	default:
		return deps.fail(dynarchive.Errorf(dynarchive.EINVALID, "unknown format %q", c.Format))
	}
	return nil
}

func stripNotes(n *dynarchive.TreeNode) {
	n.Note = ""
	for _, c := range n.Children {
		stripNotes(c)
	}
}
