package mock

import (
	"context"

	"github.com/fwojciec/dynarchive"
)

var _ dynarchive.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of dynarchive.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, filter dynarchive.SearchFilter) (*dynarchive.SearchResults, error)
}

func (s *SearchService) Search(ctx context.Context, filter dynarchive.SearchFilter) (*dynarchive.SearchResults, error) {
	return s.SearchFn(ctx, filter)
}
