package main

import (
	"strings"

	"github.com/fwojciec/dynarchive"
)

// resolveNode finds the document and node a command refers to. Without a
// document reference the node is looked up across all documents.
func resolveNode(deps *Dependencies, documentRef, nodeID string) (*dynarchive.Document, *dynarchive.Node, error) {
	if documentRef == "" {
		if nodeID == dynarchive.RootID {
			return nil, nil, dynarchive.Errorf(dynarchive.EINVALID, "--document is required to read a document root")
		}
		node, err := deps.Nodes.FindNodeByID(deps.Ctx, nil, nodeID)
		if err != nil {
			return nil, nil, err
		}
		doc, err := deps.Documents.FindDocumentByID(deps.Ctx, node.DocumentID)
		if err != nil {
			return nil, nil, err
		}
		return doc, node, nil
	}

	doc, err := deps.Documents.ResolveDocument(deps.Ctx, documentRef)
	if err != nil {
		return nil, nil, err
	}
	node, err := deps.Nodes.FindNodeByID(deps.Ctx, &doc.ID, nodeID)
	if err != nil {
		return nil, nil, err
	}
	return doc, node, nil
}

// summary returns the first line of content, shortened for listings.
func summary(content string, n int) string {
	line, _, _ := strings.Cut(content, "\n")
	if t := dynarchive.Truncate(line, n); t != line {
		return t + "..."
	}
	return line
}
