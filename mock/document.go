package mock

import (
	"context"

	"github.com/fwojciec/dynarchive"
)

var _ dynarchive.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of dynarchive.DocumentService.
type DocumentService struct {
	FindDocumentByIDFn func(ctx context.Context, id string) (*dynarchive.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter dynarchive.DocumentFilter) ([]*dynarchive.Document, error)
	ResolveDocumentFn  func(ctx context.Context, ref string) (*dynarchive.Document, error)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*dynarchive.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter dynarchive.DocumentFilter) ([]*dynarchive.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) ResolveDocument(ctx context.Context, ref string) (*dynarchive.Document, error) {
	return s.ResolveDocumentFn(ctx, ref)
}

var _ dynarchive.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of dynarchive.DocumentStore.
type DocumentStore struct {
	FindDocumentByIDFn func(ctx context.Context, id string) (*dynarchive.Document, error)
	FindSyncStateFn    func(ctx context.Context, documentID string) (*dynarchive.SyncState, error)
	ReplaceDocumentFn  func(ctx context.Context, doc *dynarchive.Document, nodes []*dynarchive.Node, state *dynarchive.SyncState) error
}

func (s *DocumentStore) FindDocumentByID(ctx context.Context, id string) (*dynarchive.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentStore) FindSyncState(ctx context.Context, documentID string) (*dynarchive.SyncState, error) {
	return s.FindSyncStateFn(ctx, documentID)
}

func (s *DocumentStore) ReplaceDocument(ctx context.Context, doc *dynarchive.Document, nodes []*dynarchive.Node, state *dynarchive.SyncState) error {
	return s.ReplaceDocumentFn(ctx, doc, nodes, state)
}
