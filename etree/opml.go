// Package etree encodes document trees as OPML outlines.
package etree

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/fwojciec/dynarchive"
)

// EncodeOPML renders tree as an OPML 2.0 document. Notes are written to
// the _note attribute and checked items carry complete="true", matching
// what outliners produce on export.
func EncodeOPML(title string, tree *dynarchive.TreeNode) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	opml := doc.CreateElement("opml")
	opml.CreateAttr("version", "2.0")
	opml.CreateElement("head").CreateElement("title").SetText(title)
	body := opml.CreateElement("body")

	if tree != nil {
		appendOutline(body, tree)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("encoding OPML: %w", err)
	}
	return out, nil
}

func appendOutline(parent *etree.Element, n *dynarchive.TreeNode) {
	el := parent.CreateElement("outline")
	el.CreateAttr("text", n.Content)
	if n.Note != "" {
		el.CreateAttr("_note", n.Note)
	}
	if n.Checked == dynarchive.CheckedTrue {
		el.CreateAttr("complete", "true")
	}
	for _, c := range n.Children {
		appendOutline(el, c)
	}
}
