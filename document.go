package dynarchive

import (
	"context"
	"time"
)

// Document represents one imported outliner document.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	Version    *int64    `json:"version,omitempty"`
	NodeCount  int       `json:"nodeCount"`
	ImportedAt time.Time `json:"importedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	return nil
}

// DocumentService represents a service for reading imported documents.
type DocumentService interface {
	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter, ordered by title.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// ResolveDocument finds a document by ID, title or filename.
	// Returns ENOTFOUND if nothing matches.
	ResolveDocument(ctx context.Context, ref string) (*Document, error)
}

// DocumentStore is the write side of document storage used by the importer.
// Implementations must replace a document atomically: readers observe either
// the old rows or the new rows, never a mix.
type DocumentStore interface {
	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindSyncState retrieves the sync state recorded for a document.
	// Returns ENOTFOUND if the document was never imported.
	FindSyncState(ctx context.Context, documentID string) (*SyncState, error)

	// ReplaceDocument deletes all rows of the document and inserts the new
	// document, its nodes and sync state in a single transaction.
	ReplaceDocument(ctx context.Context, doc *Document, nodes []*Node, state *SyncState) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TotalNodes sums node counts across documents.
func TotalNodes(docs []*Document) int {
	var n int
	for _, d := range docs {
		n += d.NodeCount
	}
	return n
}
