package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// Run executes the context command.
func (c *ContextCmd) Run(deps *Dependencies) error {
	deps.refresh()

	doc, node, err := resolveNode(deps, c.Document, c.NodeID)
	if err != nil {
		return deps.fail(err)
	}

	nc, err := deps.Tree.NodeContext(deps.Ctx, doc.ID, node.ID, c.Siblings, c.Children)
	if err != nil {
		return deps.fail(err)
	}

	w := deps.Stdout
	fmt.Fprintf(w, "Document: %s\n", nc.Document.Title)
	if len(nc.Breadcrumbs) > 0 {
		fmt.Fprintf(w, "Path: %s\n", dynarchive.FormatBreadcrumbs(nc.Breadcrumbs))
	}
	fmt.Fprintf(w, "URL: %s\n\n", dynarchive.NodeURL(nc.Document.ID, nc.Node.ID))

	for _, s := range nc.SiblingsBefore {
		fmt.Fprintf(w, "  - %s\n", summary(s.Content, 80))
	}
	fmt.Fprintf(w, "> - %s\n", nc.Node.Content)
	if nc.Node.Note != "" {
		for _, line := range strings.Split(nc.Node.Note, "\n") {
			fmt.Fprintf(w, "    > %s\n", line)
		}
	}
	for _, ch := range nc.Children {
		fmt.Fprintf(w, "      - %s%s\n", summary(ch.Content, 80), childHint(ch.ChildCount))
	}
	if more := nc.Node.ChildCount - len(nc.Children); more > 0 {
		fmt.Fprintf(w, "      ... %d more\n", more)
	}
	for _, s := range nc.SiblingsAfter {
		fmt.Fprintf(w, "  - %s\n", summary(s.Content, 80))
	}
	return nil
}

func childHint(n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return " (1 child)"
	default:
		return fmt.Sprintf(" (%d children)", n)
	}
}
