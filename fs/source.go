// Package fs reads raw outliner exports from the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/dynarchive"
)

// FilenamesIndex is the name of the file mapping document IDs to their
// storage paths.
const FilenamesIndex = "_raw_filenames.json"

// UnitSuffix is the suffix of raw document export files.
const UnitSuffix = ".c.json"

// Ensure Source implements dynarchive.RawSource at compile time.
var _ dynarchive.RawSource = (*Source)(nil)

// Source loads raw exports from a directory.
type Source struct {
	dir string
}

// NewSource creates a new Source reading from dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the source directory.
func (s *Source) Dir() string {
	return s.dir
}

type filenameEntry struct {
	ID   string `json:"id"`
	Path string `json:"_path"`
}

// Load reads the filenames index and every export unit in name order.
func (s *Source) Load(ctx context.Context) (*dynarchive.RawExport, error) {
	filenames, err := s.loadFilenames()
	if err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+UnitSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	export := &dynarchive.RawExport{Filenames: filenames}
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		export.Units = append(export.Units, dynarchive.RawUnit{Name: filepath.Base(path), Data: data})
	}

	return export, nil
}

func (s *Source) loadFilenames() (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, FilenamesIndex))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, dynarchive.Errorf(dynarchive.EPRECONDITION, "missing %s in %s", FilenamesIndex, s.dir)
	}
	if err != nil {
		return nil, err
	}

	var entries []filenameEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, dynarchive.Errorf(dynarchive.EINVALID, "invalid %s: %v", FilenamesIndex, err)
	}

	filenames := make(map[string]string, len(entries))
	for _, e := range entries {
		filenames[e.ID] = e.Path
	}
	return filenames, nil
}

// UnitBaseName strips the export suffix from a unit name.
func UnitBaseName(name string) string {
	return strings.TrimSuffix(name, UnitSuffix)
}
