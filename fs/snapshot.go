package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// Ensure Snapshot implements dynarchive.SnapshotStore at compile time.
var _ dynarchive.SnapshotStore = (*Snapshot)(nil)

// Snapshot implements dynarchive.SnapshotStore with atomic update semantics.
// Documents are saved to a temporary directory, then moved atomically on Commit.
type Snapshot struct {
	baseDir string
	name    string
}

// NewSnapshot creates a new Snapshot.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewSnapshot(baseDir, name string) *Snapshot {
	return &Snapshot{baseDir: baseDir, name: name}
}

func (s *Snapshot) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Snapshot) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// DocumentPath converts a document to a relative markdown file path.
// Example: filename "work/recipes" → work/recipes.md
func DocumentPath(doc *dynarchive.Document) (string, error) {
	name := doc.Filename
	if name == "" {
		name = doc.ID
	}
	rel := filepath.Clean(filepath.FromSlash(name)) + ".md"
	if !filepath.IsLocal(rel) {
		return "", dynarchive.Errorf(dynarchive.EINVALID, "path escapes snapshot directory: %q", name)
	}
	return rel, nil
}

// Save writes a rendered document under the temporary directory.
func (s *Snapshot) Save(ctx context.Context, doc *dynarchive.Document, body string) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	relPath, err := DocumentPath(doc)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatDocument(doc, body)), 0644)
}

// FormatDocument formats a rendered document with YAML frontmatter.
func FormatDocument(doc *dynarchive.Document, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(dynarchive.NodeURL(doc.ID, ""))
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\nimported: ")
	b.WriteString(doc.ImportedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(body)
	return b.String()
}

// Commit replaces the output directory with the saved documents.
func (s *Snapshot) Commit() error {
	// A snapshot with no saved documents still produces an empty directory.
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved documents.
func (s *Snapshot) Abort() error {
	return os.RemoveAll(s.tempDir())
}
