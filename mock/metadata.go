package mock

import (
	"context"

	"github.com/fwojciec/dynarchive"
)

var _ dynarchive.MetadataService = (*MetadataService)(nil)

// MetadataService is a mock implementation of dynarchive.MetadataService.
type MetadataService struct {
	MetadataFn    func(ctx context.Context, key string) (string, bool, error)
	SetMetadataFn func(ctx context.Context, key, value string) error
}

func (s *MetadataService) Metadata(ctx context.Context, key string) (string, bool, error) {
	return s.MetadataFn(ctx, key)
}

func (s *MetadataService) SetMetadata(ctx context.Context, key, value string) error {
	return s.SetMetadataFn(ctx, key, value)
}
