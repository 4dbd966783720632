package main

import (
	"fmt"

	"github.com/fwojciec/dynarchive"
	"github.com/fwojciec/dynarchive/importer"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	if deps.Importer == nil {
		return deps.fail(dynarchive.Errorf(dynarchive.EPRECONDITION,
			"no source directory configured. Set DYNARCHIVE_SOURCE_DIR or pass --source-dir."))
	}

	// Apply user-specified concurrency
	if c.Concurrency > 0 {
		deps.Importer.Concurrency = c.Concurrency
	}

	deps.Importer.Progress = func(event importer.ProgressEvent) {
		switch event.Type {
		case importer.ProgressImported:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] imported %s\n", event.Completed, event.Total, event.Name)
		case importer.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] failed %s: %v\n", event.Completed, event.Total, event.Name, event.Error)
		case importer.ProgressSkipped:
			// Unchanged units are only counted in the summary
		}
	}

	stats, err := deps.Importer.Import(deps.Ctx, c.Force)
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Imported %d documents (%d nodes), skipped %d unchanged",
		stats.DocumentsImported, stats.NodesImported, stats.DocumentsSkipped)
	if stats.DocumentsFailed > 0 {
		fmt.Fprintf(deps.Stdout, ", %d failed", stats.DocumentsFailed)
	}
	fmt.Fprintln(deps.Stdout, ".")
	return nil
}
