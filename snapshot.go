package dynarchive

import "context"

// SnapshotStore writes rendered documents as a browsable snapshot.
// Saved documents become visible only after Commit.
type SnapshotStore interface {
	Save(ctx context.Context, doc *Document, body string) error
	Commit() error
	Abort() error
}
