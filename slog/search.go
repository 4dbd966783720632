// Package slog provides logging decorators for dynarchive services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dynarchive"
)

// Ensure LoggingSearchService implements dynarchive.SearchService.
var _ dynarchive.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with debug logging.
type LoggingSearchService struct {
	next   dynarchive.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next dynarchive.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Search(ctx context.Context, filter dynarchive.SearchFilter) (res *dynarchive.SearchResults, err error) {
	defer func(begin time.Time) {
		var total int
		if res != nil {
			total = res.Total
		}
		s.logger.Debug("search",
			"query", filter.Query,
			"total", total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, filter)
}
