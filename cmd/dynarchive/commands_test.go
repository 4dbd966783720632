package main_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/dynarchive"
	main "github.com/fwojciec/dynarchive/cmd/dynarchive"
	"github.com/fwojciec/dynarchive/importer"
	"github.com/fwojciec/dynarchive/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func notesDocument() *dynarchive.Document {
	return &dynarchive.Document{ID: "doc1", Title: "Notes", Filename: "notes", NodeCount: 4}
}

func resolvingDocuments() *mock.DocumentService {
	return &mock.DocumentService{
		ResolveDocumentFn: func(_ context.Context, ref string) (*dynarchive.Document, error) {
			if ref == "Notes" || ref == "doc1" {
				return notesDocument(), nil
			}
			return nil, dynarchive.Errorf(dynarchive.ENOTFOUND, "document %q not found", ref)
		},
		FindDocumentByIDFn: func(_ context.Context, id string) (*dynarchive.Document, error) {
			return notesDocument(), nil
		},
	}
}

func TestImportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("imports with concurrency and reports progress", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.Importer = &importer.Importer{
			Source: &mock.RawSource{
				LoadFn: func(_ context.Context) (*dynarchive.RawExport, error) {
					return &dynarchive.RawExport{
						Filenames: map[string]string{"docA": "a", "docB": "b"},
						Units: []dynarchive.RawUnit{
							{Name: "a.c.json", Data: []byte(`{"file_id":"docA","title":"A","nodes":[{"id":"root","content":"A","children":["x"]},{"id":"x","content":"X"}]}`)},
							{Name: "b.c.json", Data: []byte(`{"file_id":"docB","title":"B","nodes":[{"id":"root","content":"B"}]}`)},
						},
					}, nil
				},
			},
			Documents: &mock.DocumentStore{
				ReplaceDocumentFn: func(_ context.Context, doc *dynarchive.Document, _ []*dynarchive.Node, _ *dynarchive.SyncState) error {
					if doc.ID == "docB" {
						return errors.New("disk full")
					}
					return nil
				},
			},
		}

		err := (&main.ImportCmd{Force: true, Concurrency: 2}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 2, deps.Importer.Concurrency)
		assert.Equal(t, "Imported 1 documents (2 nodes), skipped 0 unchanged, 1 failed.\n", stdout.String())
		assert.Contains(t, stderr.String(), "[1/2] imported a.c.json")
		assert.Contains(t, stderr.String(), "[2/2] failed b.c.json: disk full")
	})

	t.Run("skips unchanged units quietly", func(t *testing.T) {
		t.Parallel()

		unit := []byte(`{"file_id":"docA","title":"A","nodes":[{"id":"root","content":"A"}]}`)
		deps, stdout, stderr := newDeps()
		deps.Importer = &importer.Importer{
			Source: &mock.RawSource{
				LoadFn: func(_ context.Context) (*dynarchive.RawExport, error) {
					return &dynarchive.RawExport{Units: []dynarchive.RawUnit{{Name: "a.c.json", Data: unit}}}, nil
				},
			},
			Documents: &mock.DocumentStore{
				FindSyncStateFn: func(_ context.Context, id string) (*dynarchive.SyncState, error) {
					return &dynarchive.SyncState{DocumentID: id, SourceHash: fmt.Sprintf("%x", xxhash.Sum64(unit))}, nil
				},
			},
		}

		require.NoError(t, (&main.ImportCmd{}).Run(deps))

		assert.Equal(t, "Imported 0 documents (0 nodes), skipped 1 unchanged.\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("requires a source directory", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.ImportCmd{}).Run(deps)

		assert.Equal(t, dynarchive.EPRECONDITION, dynarchive.ErrorCode(err))
		assert.Contains(t, stderr.String(), "DYNARCHIVE_SOURCE_DIR")
	})
}

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints results with location and paging hint", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Documents = resolvingDocuments()
		deps.Nodes = &mock.NodeService{
			FindNodeByIDFn: func(_ context.Context, documentID *string, id string) (*dynarchive.Node, error) {
				return &dynarchive.Node{ID: id, DocumentID: *documentID, Path: "/root/n1"}, nil
			},
		}
		var got dynarchive.SearchFilter
		deps.Search = &mock.SearchService{
			SearchFn: func(_ context.Context, filter dynarchive.SearchFilter) (*dynarchive.SearchResults, error) {
				got = filter
				return &dynarchive.SearchResults{
					Results: []*dynarchive.SearchResult{{
						Node:          &dynarchive.Node{ID: "n1a", DocumentID: "doc1", Content: "FastAPI tips", Path: "/root/n1/n1a"},
						DocumentTitle: "Notes",
						Snippet:       "**FastAPI** tips",
					}},
					Total: 5,
				}, nil
			},
		}
		deps.Tree = &mock.TreeService{
			BreadcrumbsFn: func(_ context.Context, _, _ string) ([]*dynarchive.Breadcrumb, error) {
				return []*dynarchive.Breadcrumb{{NodeID: "root", Content: "Notes"}, {NodeID: "n1", Content: "Python"}}, nil
			},
		}

		cmd := &main.SearchCmd{Query: "fastapi", Document: "Notes", Below: "n1", Limit: 1, Offset: 2}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.DocumentID)
		assert.Equal(t, "doc1", *got.DocumentID)
		require.NotNil(t, got.Path)
		assert.Equal(t, "/root/n1", *got.Path)

		out := stdout.String()
		assert.Contains(t, out, "3. FastAPI tips")
		assert.Contains(t, out, "Notes: Notes > Python")
		assert.Contains(t, out, "**FastAPI** tips")
		assert.Contains(t, out, "https://dynalist.io/d/doc1#z=n1a")
		assert.Contains(t, out, "Showing 3-3 of 5 results. Use --offset 3 for more.")
	})

	t.Run("below requires document", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()

		err := (&main.SearchCmd{Query: "x", Below: "n1"}).Run(deps)
		assert.Equal(t, dynarchive.EINVALID, dynarchive.ErrorCode(err))
	})

	t.Run("query without searchable words is invalid", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Search = &mock.SearchService{
			SearchFn: func(_ context.Context, _ dynarchive.SearchFilter) (*dynarchive.SearchResults, error) {
				return &dynarchive.SearchResults{Results: []*dynarchive.SearchResult{}, NoQuery: true}, nil
			},
		}

		err := (&main.SearchCmd{Query: "!!!", Limit: 20}).Run(deps)

		assert.Equal(t, dynarchive.EINVALID, dynarchive.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no searchable words")
	})

	t.Run("reports no results", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Search = &mock.SearchService{
			SearchFn: func(_ context.Context, _ dynarchive.SearchFilter) (*dynarchive.SearchResults, error) {
				return &dynarchive.SearchResults{Results: []*dynarchive.SearchResult{}}, nil
			},
		}

		err := (&main.SearchCmd{Query: "nothing", Limit: 20}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `No results for "nothing".`)
	})

	t.Run("refreshes before searching", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		var refreshed bool
		deps.Refresher = refresherFunc(func(context.Context) error {
			refreshed = true
			return errors.New("offline")
		})
		deps.Search = &mock.SearchService{
			SearchFn: func(_ context.Context, _ dynarchive.SearchFilter) (*dynarchive.SearchResults, error) {
				assert.True(t, refreshed)
				return &dynarchive.SearchResults{Results: []*dynarchive.SearchResult{}}, nil
			},
		}

		require.NoError(t, (&main.SearchCmd{Query: "x", Limit: 20}).Run(deps))
	})
}

type refresherFunc func(ctx context.Context) error

func (f refresherFunc) MaybeRefresh(ctx context.Context) error { return f(ctx) }

func TestDocsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents with totals", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, _ dynarchive.DocumentFilter) ([]*dynarchive.Document, error) {
				return []*dynarchive.Document{
					notesDocument(),
					{ID: "doc2", Title: "Recipes", NodeCount: 2},
				}, nil
			},
		}

		require.NoError(t, (&main.DocsCmd{}).Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "doc1  Notes  (4 nodes)")
		assert.Contains(t, out, "doc2  Recipes  (2 nodes)")
		assert.Contains(t, out, "2 documents, 6 nodes")
	})

	t.Run("suggests import when empty", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, _ dynarchive.DocumentFilter) ([]*dynarchive.Document, error) {
				return []*dynarchive.Document{}, nil
			},
		}

		require.NoError(t, (&main.DocsCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "dynarchive import")
	})
}

func TestReadCmd_Run(t *testing.T) {
	t.Parallel()

	nodes := &mock.NodeService{
		FindNodeByIDFn: func(_ context.Context, documentID *string, id string) (*dynarchive.Node, error) {
			return &dynarchive.Node{ID: id, DocumentID: "doc1"}, nil
		},
	}

	t.Run("renders markdown with options", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Documents = resolvingDocuments()
		deps.Nodes = nodes
		var opts dynarchive.RenderOptions
		deps.Tree = &mock.TreeService{
			RenderSubtreeFn: func(_ context.Context, documentID, nodeID string, o dynarchive.RenderOptions) (string, error) {
				opts = o
				assert.Equal(t, "doc1", documentID)
				assert.Equal(t, "n1", nodeID)
				return "- Python\n", nil
			},
		}

		err := (&main.ReadCmd{NodeID: "n1", Depth: 2, Format: "markdown", NoNotes: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "- Python\n", stdout.String())
		require.NotNil(t, opts.MaxDepth)
		assert.Equal(t, 2, *opts.MaxDepth)
		assert.False(t, opts.IncludeNotes)
	})

	t.Run("negative depth renders everything", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Documents = resolvingDocuments()
		deps.Nodes = nodes
		deps.Tree = &mock.TreeService{
			RenderSubtreeFn: func(_ context.Context, _, _ string, o dynarchive.RenderOptions) (string, error) {
				assert.Nil(t, o.MaxDepth)
				assert.True(t, o.IncludeNotes)
				return "", nil
			},
		}

		require.NoError(t, (&main.ReadCmd{NodeID: "root", Document: "Notes", Depth: -1, Format: "markdown"}).Run(deps))
	})

	t.Run("root requires document", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()

		err := (&main.ReadCmd{NodeID: "root", Depth: -1, Format: "markdown"}).Run(deps)
		assert.Equal(t, dynarchive.EINVALID, dynarchive.ErrorCode(err))
	})

	t.Run("writes json tree without notes", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Documents = resolvingDocuments()
		deps.Nodes = nodes
		deps.Tree = &mock.TreeService{
			SubtreeFn: func(_ context.Context, _, _ string, _ *int) (*dynarchive.Node, []*dynarchive.Node, error) {
				root := &dynarchive.Node{ID: "root", DocumentID: "doc1", Content: "Notes", Note: "secret", Path: "/root", ChildCount: 1}
				parent := "root"
				child := &dynarchive.Node{ID: "n1", DocumentID: "doc1", ParentID: &parent, Content: "Python", Path: "/root/n1", Depth: 1}
				return root, []*dynarchive.Node{root, child}, nil
			},
		}

		err := (&main.ReadCmd{NodeID: "root", Document: "doc1", Depth: -1, Format: "json", NoNotes: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"content": "Python"`)
		assert.NotContains(t, stdout.String(), "secret")
	})
}

func TestRecentCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes since date and prints changes", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		var got dynarchive.RecentFilter
		deps.Nodes = &mock.NodeService{
			FindRecentChangesFn: func(_ context.Context, filter dynarchive.RecentFilter) ([]*dynarchive.RecentChange, int, error) {
				got = filter
				return []*dynarchive.RecentChange{{
					Node:          &dynarchive.Node{ID: "n2", Content: "Rust", Modified: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC).UnixMilli()},
					DocumentTitle: "Notes",
				}}, 7, nil
			},
		}

		err := (&main.RecentCmd{Since: "2024-02-01", Limit: 1}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Since)
		assert.True(t, got.Since.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, 1, got.Limit)
		assert.Contains(t, stdout.String(), "Notes  Rust")
		assert.Contains(t, stdout.String(), "Showing 1 of 7 changes.")
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()

		err := (&main.RecentCmd{Since: "March"}).Run(deps)
		assert.Equal(t, dynarchive.EINVALID, dynarchive.ErrorCode(err))
	})
}

func TestContextCmd_Run(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := newDeps()
	deps.Documents = resolvingDocuments()
	deps.Nodes = &mock.NodeService{
		FindNodeByIDFn: func(_ context.Context, _ *string, id string) (*dynarchive.Node, error) {
			return &dynarchive.Node{ID: id, DocumentID: "doc1"}, nil
		},
	}
	var siblings, children int
	deps.Tree = &mock.TreeService{
		NodeContextFn: func(_ context.Context, _, _ string, s, c int) (*dynarchive.NodeContext, error) {
			siblings, children = s, c
			return &dynarchive.NodeContext{
				Document:       notesDocument(),
				Node:           &dynarchive.Node{ID: "n1", Content: "Python", Note: "type hints", ChildCount: 3},
				Breadcrumbs:    []*dynarchive.Breadcrumb{{NodeID: "root", Content: "Notes"}},
				SiblingsAfter:  []*dynarchive.Node{{ID: "n2", Content: "Rust"}},
				Children:       []*dynarchive.Node{{ID: "n1a", Content: "FastAPI", ChildCount: 2}},
				SiblingsBefore: []*dynarchive.Node{},
			}, nil
		},
	}

	err := (&main.ContextCmd{NodeID: "n1", Document: "Notes", Siblings: 2, Children: 1}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, 2, siblings)
	assert.Equal(t, 1, children)

	expected := "Document: Notes\n" +
		"Path: Notes\n" +
		"URL: https://dynalist.io/d/doc1#z=n1\n\n" +
		"> - Python\n" +
		"    > type hints\n" +
		"      - FastAPI (2 children)\n" +
		"      ... 2 more\n" +
		"  - Rust\n"
	assert.Equal(t, expected, stdout.String())
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	docs := &mock.DocumentService{
		FindDocumentsFn: func(_ context.Context, _ dynarchive.DocumentFilter) ([]*dynarchive.Document, error) {
			return []*dynarchive.Document{notesDocument(), {ID: "doc2", Title: "Recipes"}}, nil
		},
	}

	t.Run("saves every document and commits", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Documents = docs
		deps.Tree = &mock.TreeService{
			RenderSubtreeFn: func(_ context.Context, documentID, nodeID string, o dynarchive.RenderOptions) (string, error) {
				assert.Equal(t, dynarchive.RootID, nodeID)
				assert.True(t, o.IncludeNotes)
				return "- " + documentID + "\n", nil
			},
		}
		saved := map[string]string{}
		var committed bool
		deps.NewSnapshot = func(dir string) dynarchive.SnapshotStore {
			assert.Equal(t, "/tmp/out", dir)
			return &mock.SnapshotStore{
				SaveFn: func(_ context.Context, doc *dynarchive.Document, body string) error {
					saved[doc.ID] = body
					return nil
				},
				CommitFn: func() error { committed = true; return nil },
			}
		}

		require.NoError(t, (&main.ExportCmd{Dir: "/tmp/out"}).Run(deps))

		assert.Equal(t, map[string]string{"doc1": "- doc1\n", "doc2": "- doc2\n"}, saved)
		assert.True(t, committed)
		assert.Contains(t, stdout.String(), "Exported 2 documents to /tmp/out")
	})

	t.Run("aborts on save failure", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Documents = docs
		deps.Tree = &mock.TreeService{
			RenderSubtreeFn: func(_ context.Context, _, _ string, _ dynarchive.RenderOptions) (string, error) {
				return "- x\n", nil
			},
		}
		var aborted bool
		deps.NewSnapshot = func(string) dynarchive.SnapshotStore {
			return &mock.SnapshotStore{
				SaveFn: func(context.Context, *dynarchive.Document, string) error {
					return errors.New("disk full")
				},
				AbortFn: func() error { aborted = true; return nil },
			}
		}

		err := (&main.ExportCmd{Dir: "/tmp/out"}).Run(deps)

		require.Error(t, err)
		assert.True(t, aborted)
	})
}
