package mock

import (
	"context"

	"github.com/fwojciec/dynarchive"
)

var _ dynarchive.NodeService = (*NodeService)(nil)

// NodeService is a mock implementation of dynarchive.NodeService.
type NodeService struct {
	FindNodeByIDFn      func(ctx context.Context, documentID *string, id string) (*dynarchive.Node, error)
	FindRecentChangesFn func(ctx context.Context, filter dynarchive.RecentFilter) ([]*dynarchive.RecentChange, int, error)
}

func (s *NodeService) FindNodeByID(ctx context.Context, documentID *string, id string) (*dynarchive.Node, error) {
	return s.FindNodeByIDFn(ctx, documentID, id)
}

func (s *NodeService) FindRecentChanges(ctx context.Context, filter dynarchive.RecentFilter) ([]*dynarchive.RecentChange, int, error) {
	return s.FindRecentChangesFn(ctx, filter)
}
