package mock

import (
	"context"

	"github.com/fwojciec/dynarchive"
)

var _ dynarchive.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of dynarchive.SnapshotStore.
type SnapshotStore struct {
	SaveFn   func(ctx context.Context, doc *dynarchive.Document, body string) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *SnapshotStore) Save(ctx context.Context, doc *dynarchive.Document, body string) error {
	return s.SaveFn(ctx, doc, body)
}

func (s *SnapshotStore) Commit() error {
	return s.CommitFn()
}

func (s *SnapshotStore) Abort() error {
	return s.AbortFn()
}
