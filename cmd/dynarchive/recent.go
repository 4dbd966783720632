package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/dynarchive"
)

// Run executes the recent command.
func (c *RecentCmd) Run(deps *Dependencies) error {
	deps.refresh()

	filter := dynarchive.RecentFilter{Limit: c.Limit, Offset: c.Offset}

	if c.Document != "" {
		doc, err := deps.Documents.ResolveDocument(deps.Ctx, c.Document)
		if err != nil {
			return deps.fail(err)
		}
		filter.DocumentID = &doc.ID
	}

	if c.Since != "" {
		since, err := time.ParseInLocation("2006-01-02", c.Since, time.UTC)
		if err != nil {
			return deps.fail(dynarchive.Errorf(dynarchive.EINVALID, "invalid date %q, expected YYYY-MM-DD", c.Since))
		}
		filter.Since = &since
	}

	changes, total, err := deps.Nodes.FindRecentChanges(deps.Ctx, filter)
	if err != nil {
		return deps.fail(err)
	}

	if len(changes) == 0 {
		fmt.Fprintln(deps.Stdout, "No changes found.")
		return nil
	}

	for _, ch := range changes {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n",
			ch.Node.ModifiedAt().Format("2006-01-02 15:04"),
			ch.DocumentTitle,
			summary(ch.Node.Content, 80),
		)
	}
	fmt.Fprintf(deps.Stdout, "\nShowing %d of %d changes.\n", len(changes), total)
	return nil
}
