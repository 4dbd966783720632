package mock

import (
	"context"

	"github.com/fwojciec/dynarchive"
)

var _ dynarchive.RawSource = (*RawSource)(nil)

// RawSource is a mock implementation of dynarchive.RawSource.
type RawSource struct {
	LoadFn func(ctx context.Context) (*dynarchive.RawExport, error)
}

func (s *RawSource) Load(ctx context.Context) (*dynarchive.RawExport, error) {
	return s.LoadFn(ctx)
}

var _ dynarchive.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of dynarchive.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context) error
}

func (d *Downloader) Download(ctx context.Context) error {
	return d.DownloadFn(ctx)
}

var _ dynarchive.Importer = (*Importer)(nil)

// Importer is a mock implementation of dynarchive.Importer.
type Importer struct {
	ImportFn      func(ctx context.Context, force bool) (*dynarchive.ImportStats, error)
	ReimportOneFn func(ctx context.Context, raw *dynarchive.RawDocument) error
}

func (i *Importer) Import(ctx context.Context, force bool) (*dynarchive.ImportStats, error) {
	return i.ImportFn(ctx, force)
}

func (i *Importer) ReimportOne(ctx context.Context, raw *dynarchive.RawDocument) error {
	return i.ReimportOneFn(ctx, raw)
}
