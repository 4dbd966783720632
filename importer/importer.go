// Package importer loads raw outliner exports into the archive.
// It coordinates change detection, tree flattening and transactional
// replacement of each document.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/dynarchive"
	"github.com/fwojciec/dynarchive/fs"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Ensure Importer implements dynarchive.Importer at compile time.
var _ dynarchive.Importer = (*Importer)(nil)

// Importer imports raw export units into a DocumentStore.
type Importer struct {
	Source      dynarchive.RawSource
	Documents   dynarchive.DocumentStore
	Logger      *slog.Logger
	Now         func() time.Time
	Concurrency int
	Progress    ProgressFunc
}

// ProgressEvent reports the outcome of one export unit.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Name      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressImported ProgressType = iota
	ProgressSkipped
	ProgressFailed
)

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

// unit holds a decoded and flattened export unit.
type unit struct {
	name      string
	hash      string
	raw       *dynarchive.RawDocument
	doc       *dynarchive.Document
	nodes     []*dynarchive.Node
	decodeErr error
	err       error
}

// Import imports every export unit whose content changed since the last
// import, or every unit when force is set.
func (i *Importer) Import(ctx context.Context, force bool) (*dynarchive.ImportStats, error) {
	log := i.logger().With("run", uuid.NewString())

	export, err := i.Source.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dynarchive.ImportStats{}
	if len(export.Units) == 0 {
		log.Info("no export units found")
		return stats, nil
	}

	units, err := i.prepare(ctx, export)
	if err != nil {
		return nil, err
	}

	now := i.now()
	for n, u := range units {
		event := ProgressEvent{Completed: n + 1, Total: len(units), Name: u.name}

		switch {
		case u.decodeErr != nil:
			log.Warn("skipping unreadable unit", "unit", u.name, "error", u.decodeErr)
			continue
		case u.raw.FileID == "":
			log.Warn("skipping unit without file_id", "unit", u.name)
			continue
		}

		if !force {
			unchanged, err := i.unchanged(ctx, u)
			if err != nil {
				log.Error("failed to read sync state", "unit", u.name, "error", err)
				stats.DocumentsFailed++
				i.report(event, ProgressFailed, err)
				continue
			}
			if unchanged {
				stats.DocumentsSkipped++
				i.report(event, ProgressSkipped, nil)
				continue
			}
		}

		if u.err != nil {
			log.Error("failed to flatten document", "unit", u.name, "error", u.err)
			stats.DocumentsFailed++
			i.report(event, ProgressFailed, u.err)
			continue
		}

		state := &dynarchive.SyncState{
			DocumentID:   u.doc.ID,
			Version:      u.doc.Version,
			LastImportAt: now,
			SourceHash:   u.hash,
		}
		if err := i.Documents.ReplaceDocument(ctx, u.doc, u.nodes, state); err != nil {
			log.Error("failed to import document", "unit", u.name, "error", err)
			stats.DocumentsFailed++
			i.report(event, ProgressFailed, err)
			continue
		}

		stats.DocumentsImported++
		stats.NodesImported += len(u.nodes)
		i.report(event, ProgressImported, nil)
		log.Debug("imported document", "title", u.doc.Title, "nodes", len(u.nodes))
	}

	log.Info("import complete",
		"imported", stats.DocumentsImported,
		"skipped", stats.DocumentsSkipped,
		"failed", stats.DocumentsFailed,
		"nodes", stats.NodesImported,
	)
	return stats, nil
}

// prepare decodes and flattens units concurrently, keeping input order.
func (i *Importer) prepare(ctx context.Context, export *dynarchive.RawExport) ([]*unit, error) {
	concurrency := i.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	units := make([]*unit, len(export.Units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for n, raw := range export.Units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			units[n] = decodeUnit(raw, export.Filenames)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func decodeUnit(raw dynarchive.RawUnit, filenames map[string]string) *unit {
	u := &unit{name: raw.Name, hash: computeHash(raw.Data)}

	var doc dynarchive.RawDocument
	if err := json.Unmarshal(raw.Data, &doc); err != nil {
		u.decodeErr = err
		return u
	}
	u.raw = &doc
	if doc.FileID == "" {
		return u
	}

	filename, ok := filenames[doc.FileID]
	if !ok {
		filename = fs.UnitBaseName(raw.Name)
	}
	u.doc, u.nodes, u.err = dynarchive.Flatten(&doc, filename)
	return u
}

// unchanged reports whether the stored hash matches the unit.
func (i *Importer) unchanged(ctx context.Context, u *unit) (bool, error) {
	state, err := i.Documents.FindSyncState(ctx, u.raw.FileID)
	if dynarchive.ErrorCode(err) == dynarchive.ENOTFOUND {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return state.SourceHash == u.hash, nil
}

// ReimportOne replaces an imported document with a fresh tree, keeping its
// stored filename.
func (i *Importer) ReimportOne(ctx context.Context, raw *dynarchive.RawDocument) error {
	if raw.FileID == "" {
		return dynarchive.Errorf(dynarchive.EINVALID, "document ID required")
	}

	existing, err := i.Documents.FindDocumentByID(ctx, raw.FileID)
	if err != nil {
		return err
	}

	doc, nodes, err := dynarchive.Flatten(raw, existing.Filename)
	if err != nil {
		return err
	}

	// Map keys marshal in sorted order, so equal trees hash equally.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	state := &dynarchive.SyncState{
		DocumentID:   doc.ID,
		Version:      doc.Version,
		LastImportAt: i.now(),
		SourceHash:   computeHash(data),
	}
	if err := i.Documents.ReplaceDocument(ctx, doc, nodes, state); err != nil {
		return fmt.Errorf("replace document %q: %w", doc.ID, err)
	}

	i.logger().Debug("reimported document", "document", doc.ID, "nodes", len(nodes))
	return nil
}

func (i *Importer) report(event ProgressEvent, typ ProgressType, err error) {
	if i.Progress == nil {
		return
	}
	event.Type = typ
	event.Error = err
	i.Progress(event)
}

func (i *Importer) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return i.Logger
}

func (i *Importer) now() time.Time {
	if i.Now == nil {
		return time.Now()
	}
	return i.Now()
}

func computeHash(data []byte) string {
	h := xxhash.Sum64(data)
	return fmt.Sprintf("%x", h)
}
