package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dynarchive"
)

// Ensure LoggingImporter implements dynarchive.Importer.
var _ dynarchive.Importer = (*LoggingImporter)(nil)

// LoggingImporter wraps an Importer with logging.
type LoggingImporter struct {
	next   dynarchive.Importer
	logger *slog.Logger
}

// NewLoggingImporter creates a new LoggingImporter.
func NewLoggingImporter(next dynarchive.Importer, logger *slog.Logger) *LoggingImporter {
	return &LoggingImporter{next: next, logger: logger}
}

// Import delegates to the wrapped importer and logs the outcome.
func (i *LoggingImporter) Import(ctx context.Context, force bool) (stats *dynarchive.ImportStats, err error) {
	defer func(begin time.Time) {
		attrs := []any{"force", force, "duration", time.Since(begin)}
		if stats != nil {
			attrs = append(attrs,
				"imported", stats.DocumentsImported,
				"skipped", stats.DocumentsSkipped,
				"failed", stats.DocumentsFailed,
			)
		}
		if err != nil {
			i.logger.Error("import", append(attrs, "err", err)...)
			return
		}
		i.logger.Info("import", attrs...)
	}(time.Now())
	return i.next.Import(ctx, force)
}

// ReimportOne delegates to the wrapped importer and logs the outcome.
func (i *LoggingImporter) ReimportOne(ctx context.Context, raw *dynarchive.RawDocument) (err error) {
	defer func(begin time.Time) {
		i.logger.Info("reimport",
			"document", raw.FileID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.ReimportOne(ctx, raw)
}
