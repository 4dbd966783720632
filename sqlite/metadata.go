package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/dynarchive"
)

// Compile-time interface verification.
var _ dynarchive.MetadataService = (*MetadataService)(nil)

// MetadataService implements dynarchive.MetadataService using SQLite.
type MetadataService struct {
	db *DB
}

// NewMetadataService creates a new MetadataService.
func NewMetadataService(db *DB) *MetadataService {
	return &MetadataService{db: db}
}

// Metadata returns the value stored for key.
func (s *MetadataService) Metadata(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetMetadata creates or overwrites the value stored for key.
func (s *MetadataService) SetMetadata(ctx context.Context, key, value string) error {
	return setMetadata(ctx, s.db, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setMetadata(ctx context.Context, e execer, key, value string) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
