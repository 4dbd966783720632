package mock

import (
	"context"

	"github.com/fwojciec/dynarchive"
)

var _ dynarchive.TreeService = (*TreeService)(nil)

// TreeService is a mock implementation of dynarchive.TreeService.
type TreeService struct {
	BreadcrumbsFn   func(ctx context.Context, documentID, path string) ([]*dynarchive.Breadcrumb, error)
	ChildrenFn      func(ctx context.Context, documentID, parentID string, limit int) ([]*dynarchive.Node, error)
	SiblingsFn      func(ctx context.Context, documentID string, parentID *string, sortOrder, count int) ([]*dynarchive.Node, []*dynarchive.Node, error)
	NodeContextFn   func(ctx context.Context, documentID, nodeID string, siblingCount, childLimit int) (*dynarchive.NodeContext, error)
	SubtreeFn       func(ctx context.Context, documentID, nodeID string, maxDepth *int) (*dynarchive.Node, []*dynarchive.Node, error)
	RenderSubtreeFn func(ctx context.Context, documentID, nodeID string, opts dynarchive.RenderOptions) (string, error)
}

func (s *TreeService) Breadcrumbs(ctx context.Context, documentID, path string) ([]*dynarchive.Breadcrumb, error) {
	return s.BreadcrumbsFn(ctx, documentID, path)
}

func (s *TreeService) Children(ctx context.Context, documentID, parentID string, limit int) ([]*dynarchive.Node, error) {
	return s.ChildrenFn(ctx, documentID, parentID, limit)
}

func (s *TreeService) Siblings(ctx context.Context, documentID string, parentID *string, sortOrder, count int) ([]*dynarchive.Node, []*dynarchive.Node, error) {
	return s.SiblingsFn(ctx, documentID, parentID, sortOrder, count)
}

func (s *TreeService) NodeContext(ctx context.Context, documentID, nodeID string, siblingCount, childLimit int) (*dynarchive.NodeContext, error) {
	return s.NodeContextFn(ctx, documentID, nodeID, siblingCount, childLimit)
}

func (s *TreeService) Subtree(ctx context.Context, documentID, nodeID string, maxDepth *int) (*dynarchive.Node, []*dynarchive.Node, error) {
	return s.SubtreeFn(ctx, documentID, nodeID, maxDepth)
}

func (s *TreeService) RenderSubtree(ctx context.Context, documentID, nodeID string, opts dynarchive.RenderOptions) (string, error) {
	return s.RenderSubtreeFn(ctx, documentID, nodeID, opts)
}
