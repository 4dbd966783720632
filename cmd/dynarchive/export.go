package main

import (
	"fmt"

	"github.com/fwojciec/dynarchive"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	deps.refresh()

	docs, err := deps.Documents.FindDocuments(deps.Ctx, dynarchive.DocumentFilter{})
	if err != nil {
		return deps.fail(err)
	}

	snap := deps.NewSnapshot(c.Dir)
	for _, doc := range docs {
		body, err := deps.Tree.RenderSubtree(deps.Ctx, doc.ID, dynarchive.RootID, dynarchive.RenderOptions{IncludeNotes: true})
		if err == nil {
			err = snap.Save(deps.Ctx, doc, body)
		}
		if err != nil {
			_ = snap.Abort()
			return deps.fail(err)
		}
	}

	if err := snap.Commit(); err != nil {
		_ = snap.Abort()
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Exported %d documents to %s\n", len(docs), c.Dir)
	return nil
}
