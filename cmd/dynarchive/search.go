package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	deps.refresh()

	filter := dynarchive.SearchFilter{
		Query:  c.Query,
		Limit:  c.Limit,
		Offset: c.Offset,
	}

	if c.Document != "" {
		doc, err := deps.Documents.ResolveDocument(deps.Ctx, c.Document)
		if err != nil {
			return deps.fail(err)
		}
		filter.DocumentID = &doc.ID
	}

	if c.Below != "" {
		if filter.DocumentID == nil {
			return deps.fail(dynarchive.Errorf(dynarchive.EINVALID, "--below requires --document"))
		}
		node, err := deps.Nodes.FindNodeByID(deps.Ctx, filter.DocumentID, c.Below)
		if err != nil {
			return deps.fail(err)
		}
		filter.Path = &node.Path
	}

	res, err := deps.Search.Search(deps.Ctx, filter)
	if err != nil {
		return deps.fail(err)
	}
	if res.NoQuery {
		return deps.fail(dynarchive.Errorf(dynarchive.EINVALID, "query %q has no searchable words", c.Query))
	}
	if len(res.Results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", c.Query)
		return nil
	}

	for i, r := range res.Results {
		crumbs, err := deps.Tree.Breadcrumbs(deps.Ctx, r.Node.DocumentID, r.Node.Path)
		if err != nil {
			return deps.fail(err)
		}

		fmt.Fprintf(deps.Stdout, "%d. %s\n", c.Offset+i+1, summary(r.Node.Content, 80))
		location := r.DocumentTitle
		if len(crumbs) > 0 {
			location += ": " + dynarchive.FormatBreadcrumbs(crumbs)
		}
		fmt.Fprintf(deps.Stdout, "   %s\n", location)
		if r.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "   %s\n", strings.ReplaceAll(r.Snippet, "\n", " "))
		}
		fmt.Fprintf(deps.Stdout, "   %s\n", dynarchive.NodeURL(r.Node.DocumentID, r.Node.ID))
	}

	fmt.Fprintf(deps.Stdout, "\nShowing %d-%d of %d results.", c.Offset+1, c.Offset+len(res.Results), res.Total)
	if res.HasMore(c.Offset) {
		fmt.Fprintf(deps.Stdout, " Use --offset %d for more.", c.Offset+len(res.Results))
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}
