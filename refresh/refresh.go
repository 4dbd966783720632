// Package refresh keeps the archive reasonably fresh before reads.
//
// A Controller re-imports the raw export at most once per interval. Callers
// within one process collapse into a single refresh, and a lock file keeps
// refreshes in separate processes from overlapping.
package refresh

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fwojciec/dynarchive"
	"github.com/gofrs/flock"
	"golang.org/x/sync/singleflight"
)

// DefaultInterval is the minimum time between refreshes.
const DefaultInterval = 5 * time.Minute

// Controller refreshes the archive when the last refresh is older than
// Interval. Refresh failures are logged, never returned, and still reset
// the cooldown.
type Controller struct {
	Importer   dynarchive.Importer
	Metadata   dynarchive.MetadataService
	Documents  dynarchive.DocumentService
	Downloader dynarchive.Downloader // optional

	// SourceDir, when set, must exist for a refresh to run.
	SourceDir string
	// LockPath, when set, names the lock file shared with other processes.
	LockPath string

	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time

	group singleflight.Group
	mu    sync.Mutex
}

// MaybeRefresh runs a refresh if the cooldown has expired.
func (c *Controller) MaybeRefresh(ctx context.Context) error {
	due, err := c.due(ctx)
	if err != nil || !due {
		return err
	}

	_, err, _ = c.group.Do("refresh", func() (any, error) {
		return nil, c.refresh(ctx)
	})
	return err
}

// Prime records the current time as the last refresh when the archive
// already holds documents but no refresh was ever recorded.
func (c *Controller) Prime(ctx context.Context) error {
	_, ok, err := c.Metadata.Metadata(ctx, dynarchive.MetaLastUpdateAt)
	if err != nil || ok {
		return err
	}

	docs, err := c.Documents.FindDocuments(ctx, dynarchive.DocumentFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	return c.stamp(ctx)
}

func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A refresh that finished while this one waited has reset the cooldown.
	due, err := c.due(ctx)
	if err != nil || !due {
		return err
	}

	if c.SourceDir != "" {
		if _, err := os.Stat(c.SourceDir); err != nil {
			c.logger().Debug("source directory unavailable, skipping refresh", "dir", c.SourceDir)
			return nil
		}
	}

	if c.LockPath != "" {
		lock := flock.New(c.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return err
		}
		if !locked {
			c.logger().Debug("refresh running in another process", "lock", c.LockPath)
			return nil
		}
		defer lock.Unlock()
	}

	if c.Downloader != nil {
		if err := c.Downloader.Download(ctx); err != nil {
			c.logger().Warn("download failed, continuing with existing data", "error", err)
		}
	}

	if _, err := c.Importer.Import(ctx, false); err != nil {
		c.logger().Warn("import failed, continuing with existing data", "error", err)
	}

	return c.stamp(ctx)
}

// due reports whether the cooldown has expired. A missing or unreadable
// timestamp counts as expired.
func (c *Controller) due(ctx context.Context) (bool, error) {
	value, ok, err := c.Metadata.Metadata(ctx, dynarchive.MetaLastUpdateAt)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	last, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return true, nil
	}
	return c.now().Sub(time.Unix(last, 0)) >= c.interval(), nil
}

func (c *Controller) stamp(ctx context.Context) error {
	return c.Metadata.SetMetadata(ctx, dynarchive.MetaLastUpdateAt, strconv.FormatInt(c.now().Unix(), 10))
}

func (c *Controller) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultInterval
	}
	return c.Interval
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func (c *Controller) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
