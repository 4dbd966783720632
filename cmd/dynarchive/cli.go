package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/dynarchive"
	"github.com/fwojciec/dynarchive/importer"
)

// Refresher brings the archive up to date before reads.
type Refresher interface {
	MaybeRefresh(ctx context.Context) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Documents dynarchive.DocumentService
	Nodes     dynarchive.NodeService
	Search    dynarchive.SearchService
	Tree      dynarchive.TreeService
	Importer  *importer.Importer
	Refresher Refresher

	// NewSnapshot returns a snapshot store writing to dir.
	NewSnapshot func(dir string) dynarchive.SnapshotStore
}

// refresh runs a freshness check when one is configured. Failures are
// logged and the command continues with the data already in the archive.
func (d *Dependencies) refresh() {
	if d.Refresher == nil {
		return
	}
	if err := d.Refresher.MaybeRefresh(d.Ctx); err != nil && d.Logger != nil {
		d.Logger.Warn("refresh failed", "error", err)
	}
}

// fail prints a user-facing error and returns err.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", dynarchive.ErrorMessage(err))
	return err
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB              string        `name:"db" env:"DYNARCHIVE_DB" help:"Database path"`
	SourceDir       string        `name:"source-dir" env:"DYNARCHIVE_SOURCE_DIR" type:"path" help:"Directory holding raw .c.json exports"`
	RefreshInterval time.Duration `name:"refresh-interval" env:"DYNARCHIVE_REFRESH_INTERVAL" default:"5m" help:"Minimum time between automatic refreshes"`
	Verbose         bool          `short:"v" help:"Enable debug logging"`

	Import  ImportCmd  `cmd:"" help:"Import raw exports into the archive"`
	Search  SearchCmd  `cmd:"" help:"Full-text search across documents"`
	Docs    DocsCmd    `cmd:"" help:"List imported documents"`
	Read    ReadCmd    `cmd:"" help:"Render a node and its subtree"`
	Recent  RecentCmd  `cmd:"" help:"Show recently modified nodes"`
	Context ContextCmd `cmd:"" help:"Show a node with its surroundings"`
	Export  ExportCmd  `cmd:"" help:"Write every document as markdown to a directory"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Force       bool `short:"f" help:"Reimport documents even when unchanged"`
	Concurrency int  `short:"c" help:"Number of export units decoded in parallel (default 4)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Search query (words are ANDed, \"quoted phrases\" match exactly)"`
	Document string `short:"d" help:"Restrict to a document (ID, title or filename)"`
	Below    string `help:"Restrict to the subtree under this node ID (requires --document)"`
	Limit    int    `short:"n" default:"20" help:"Maximum results"`
	Offset   int    `help:"Results to skip"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct{}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	NodeID   string `arg:"" default:"root" help:"Node ID to render"`
	Document string `short:"d" help:"Document (ID, title or filename)"`
	Depth    int    `default:"-1" help:"Maximum levels below the node (-1 for all)"`
	Format   string `enum:"markdown,json,opml" default:"markdown" help:"Output format (markdown, json, opml)"`
	NoNotes  bool   `name:"no-notes" help:"Omit notes"`
}

// RecentCmd is the "recent" subcommand.
type RecentCmd struct {
	Document string `short:"d" help:"Restrict to a document (ID, title or filename)"`
	Since    string `help:"Only changes on or after this date (YYYY-MM-DD)"`
	Limit    int    `short:"n" default:"20" help:"Maximum results"`
	Offset   int    `help:"Results to skip"`
}

// ContextCmd is the "context" subcommand.
type ContextCmd struct {
	NodeID   string `arg:"" help:"Node ID"`
	Document string `short:"d" help:"Document (ID, title or filename)"`
	Siblings int    `default:"3" help:"Siblings to show on each side"`
	Children int    `default:"10" help:"Maximum children to show"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" type:"path" help:"Output directory (replaced atomically)"`
}
