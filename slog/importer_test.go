package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/dynarchive"
	"github.com/fwojciec/dynarchive/mock"
	dslog "github.com/fwojciec/dynarchive/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingImporter_Import(t *testing.T) {
	t.Parallel()

	t.Run("logs stats", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Importer{
			ImportFn: func(ctx context.Context, force bool) (*dynarchive.ImportStats, error) {
				return &dynarchive.ImportStats{DocumentsImported: 2, DocumentsSkipped: 1}, nil
			},
		}

		imp := dslog.NewLoggingImporter(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		stats, err := imp.Import(context.Background(), true)

		require.NoError(t, err)
		assert.Equal(t, 2, stats.DocumentsImported)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "force=true")
		assert.Contains(t, output, "imported=2")
		assert.Contains(t, output, "skipped=1")
		assert.Contains(t, output, "failed=0")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Importer{
			ImportFn: func(ctx context.Context, force bool) (*dynarchive.ImportStats, error) {
				return nil, dynarchive.Errorf(dynarchive.EPRECONDITION, "missing index")
			},
		}

		imp := dslog.NewLoggingImporter(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := imp.Import(context.Background(), false)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.NotContains(t, output, "imported=")
	})
}

func TestLoggingImporter_ReimportOne(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Importer{
		ReimportOneFn: func(ctx context.Context, raw *dynarchive.RawDocument) error {
			return errors.New("boom")
		},
	}

	imp := dslog.NewLoggingImporter(inner, slog.New(slog.NewTextHandler(&buf, nil)))
	err := imp.ReimportOne(context.Background(), &dynarchive.RawDocument{FileID: "doc1"})

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=reimport")
	assert.Contains(t, output, "document=doc1")
	assert.Contains(t, output, "err=boom")
}
