package dynarchive

import (
	"context"
	"time"
)

// RawUnit is one raw export file awaiting import.
type RawUnit struct {
	Name string
	Data []byte
}

// RawExport is a full set of raw export files plus the index mapping
// document IDs to their local storage paths.
type RawExport struct {
	Filenames map[string]string
	Units     []RawUnit
}

// RawSource loads raw exports.
type RawSource interface {
	// Load reads all export units. Returns EPRECONDITION when the
	// document index is missing.
	Load(ctx context.Context) (*RawExport, error)
}

// Downloader refreshes the raw export from the remote outliner.
type Downloader interface {
	Download(ctx context.Context) error
}

// SyncState records what was last imported for a document.
type SyncState struct {
	DocumentID   string    `json:"documentId"`
	Version      *int64    `json:"version,omitempty"`
	LastImportAt time.Time `json:"lastImportAt"`
	SourceHash   string    `json:"sourceHash"`
}

// ImportStats summarizes an import run.
type ImportStats struct {
	DocumentsImported int `json:"documentsImported"`
	DocumentsSkipped  int `json:"documentsSkipped"`
	DocumentsFailed   int `json:"documentsFailed"`
	NodesImported     int `json:"nodesImported"`
}

// Importer represents the single writer of the archive. Implementations are
// not reentrant; callers must serialize invocations.
type Importer interface {
	// Import imports every changed export unit. Unless force is set, units
	// whose content hash matches the last import are skipped.
	Import(ctx context.Context, force bool) (*ImportStats, error)

	// ReimportOne replaces an already imported document with a fresh tree,
	// typically after an edit was applied upstream.
	ReimportOne(ctx context.Context, raw *RawDocument) error
}
