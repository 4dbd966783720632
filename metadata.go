package dynarchive

import "context"

// Metadata keys.
const (
	MetaSchemaVersion = "schema_version"
	MetaLastUpdateAt  = "last_update_at"
)

// MetadataService represents a process-wide key/value store.
type MetadataService interface {
	// Metadata returns the value for key and whether it was present.
	Metadata(ctx context.Context, key string) (string, bool, error)

	// SetMetadata creates or overwrites the value for key.
	SetMetadata(ctx context.Context, key, value string) error
}
