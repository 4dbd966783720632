package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// Compile-time interface verification.
var _ dynarchive.SearchService = (*SearchService)(nil)

// SearchService implements dynarchive.SearchService using the nodes_fts index.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Search returns ranked matches for the filter's query.
func (s *SearchService) Search(ctx context.Context, filter dynarchive.SearchFilter) (*dynarchive.SearchResults, error) {
	match := CompileQuery(filter.Query)
	if match == "" {
		return &dynarchive.SearchResults{Results: []*dynarchive.SearchResult{}, NoQuery: true}, nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = dynarchive.DefaultSearchLimit
	}

	var where strings.Builder
	args := []any{match}

	where.WriteString(" WHERE nodes_fts MATCH ?")
	if filter.DocumentID != nil {
		where.WriteString(" AND n.document_id = ?")
		args = append(args, *filter.DocumentID)
	}
	if filter.Path != nil {
		where.WriteString(" AND " + subtreeClause)
		args = append(args, subtreeArgs(*filter.Path)...)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM nodes_fts JOIN nodes n ON n.rowid = nodes_fts.rowid"+where.String(),
		args...,
	).Scan(&total); err != nil {
		return nil, err
	}

	var query strings.Builder
	query.WriteString("SELECT " + nodeColumns + `, d.title,
		snippet(nodes_fts, -1, '**', '**', '...', 32), nodes_fts.rank
		FROM nodes_fts
		JOIN nodes n ON n.rowid = nodes_fts.rowid
		JOIN documents d ON d.id = n.document_id`)
	query.WriteString(where.String())
	query.WriteString(" ORDER BY nodes_fts.rank")
	appendPagination(&query, &args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*dynarchive.SearchResult{}
	for rows.Next() {
		var r dynarchive.SearchResult
		n, err := scanNode(rows, &r.DocumentTitle, &r.Snippet, &r.Rank)
		if err != nil {
			return nil, err
		}
		r.Node = n
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &dynarchive.SearchResults{Results: results, Total: total}, nil
}
