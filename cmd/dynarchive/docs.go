package main

import (
	"fmt"

	"github.com/fwojciec/dynarchive"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	deps.refresh()

	docs, err := deps.Documents.FindDocuments(deps.Ctx, dynarchive.DocumentFilter{})
	if err != nil {
		return deps.fail(err)
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found. Use 'dynarchive import' to import exports.")
		return nil
	}

	for _, d := range docs {
		fmt.Fprintf(deps.Stdout, "%s  %s  (%d nodes)\n", d.ID, d.Title, d.NodeCount)
	}
	fmt.Fprintf(deps.Stdout, "\n%d documents, %d nodes\n", len(docs), dynarchive.TotalNodes(docs))
	return nil
}
