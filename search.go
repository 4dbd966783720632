package dynarchive

import "context"

// DefaultSearchLimit is the page size used when a filter does not set one.
const DefaultSearchLimit = 20

// SearchService represents a full-text search service over nodes.
type SearchService interface {
	// Search returns ranked matches for the filter's query. A query that
	// compiles to nothing yields results with NoQuery set and no error.
	Search(ctx context.Context, filter SearchFilter) (*SearchResults, error)
}

// SearchFilter represents a search request.
//
// Path restricts matches to the node at that path and its descendants.
type SearchFilter struct {
	Query      string  `json:"query"`
	DocumentID *string `json:"documentId"`
	Path       *string `json:"path"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	Node          *Node   `json:"node"`
	DocumentTitle string  `json:"documentTitle"`
	Snippet       string  `json:"snippet"`
	Rank          float64 `json:"rank"`
}

// SearchResults is a page of search hits. Total counts all matches under
// the same filter, ignoring pagination.
type SearchResults struct {
	Results []*SearchResult `json:"results"`
	Total   int             `json:"total"`
	NoQuery bool            `json:"noQuery,omitempty"`
}

// HasMore reports whether matches remain after the page fetched at offset.
func (r *SearchResults) HasMore(offset int) bool {
	return offset+len(r.Results) < r.Total
}
