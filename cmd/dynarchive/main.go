package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dynarchive"
	"github.com/fwojciec/dynarchive/fs"
	"github.com/fwojciec/dynarchive/importer"
	"github.com/fwojciec/dynarchive/refresh"
	dslog "github.com/fwojciec/dynarchive/slog"
	"github.com/fwojciec/dynarchive/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); overridden by --db.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dynarchive"),
		kong.Description("Search and browse a local archive of outliner documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'dynarchive --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if dir := filepath.Dir(m.DBPath); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DYNARCHIVE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	documents := sqlite.NewDocumentService(m.DB)
	metadata := sqlite.NewMetadataService(m.DB)

	deps.Logger = logger
	deps.Documents = documents
	deps.Nodes = sqlite.NewNodeService(m.DB)
	deps.Search = dslog.NewLoggingSearchService(sqlite.NewSearchService(m.DB), logger)
	deps.Tree = sqlite.NewTreeService(m.DB)
	deps.NewSnapshot = func(dir string) dynarchive.SnapshotStore {
		return fs.NewSnapshot(filepath.Dir(dir), filepath.Base(dir))
	}

	if cli.SourceDir != "" {
		deps.Importer = &importer.Importer{
			Source:    fs.NewSource(cli.SourceDir),
			Documents: documents,
			Logger:    logger,
		}

		controller := &refresh.Controller{
			Importer:  dslog.NewLoggingImporter(deps.Importer, logger),
			Metadata:  metadata,
			Documents: documents,
			SourceDir: cli.SourceDir,
			LockPath:  m.DBPath + ".lock",
			Interval:  cli.RefreshInterval,
			Logger:    logger,
		}
		if err := controller.Prime(ctx); err != nil {
			logger.Warn("failed to prime refresh timestamp", "error", err)
		}
		deps.Refresher = controller
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dynarchive.db"
	}
	return filepath.Join(home, ".local", "share", "dynarchive", "archive.db")
}
