package dynarchive

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawDocument is one exported document tree as read from the outliner.
// Nodes is keyed by node ID; the tree hangs off the entry with RootID.
type RawDocument struct {
	FileID  string
	Title   string
	Version *int64
	Nodes   map[string]*RawNode
}

// RawNode is a single raw tree element. Missing fields decode to their zero
// values, so downstream code never deals with absent keys.
type RawNode struct {
	Content  string   `json:"content"`
	Note     string   `json:"note"`
	Created  int64    `json:"created"`
	Modified int64    `json:"modified"`
	Checked  *bool    `json:"checked,omitempty"`
	Color    *int64   `json:"color,omitempty"`
	Children []string `json:"children,omitempty"`
}

type rawDocumentJSON struct {
	FileID  string          `json:"file_id"`
	Title   string          `json:"title"`
	Version *int64          `json:"version,omitempty"`
	Nodes   json.RawMessage `json:"nodes"`
}

// UnmarshalJSON decodes an export where "nodes" is either an array of node
// objects carrying an "id" field or an object keyed by node ID.
func (d *RawDocument) UnmarshalJSON(data []byte) error {
	var aux rawDocumentJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	d.FileID = aux.FileID
	d.Title = aux.Title
	d.Version = aux.Version
	d.Nodes = make(map[string]*RawNode)

	nodes := bytes.TrimSpace(aux.Nodes)
	if len(nodes) == 0 || bytes.Equal(nodes, []byte("null")) {
		return nil
	}

	switch nodes[0] {
	case '[':
		var list []struct {
			ID string `json:"id"`
			RawNode
		}
		if err := json.Unmarshal(nodes, &list); err != nil {
			return fmt.Errorf("decoding nodes: %w", err)
		}
		for i := range list {
			id := list[i].ID
			if id == "" {
				return Errorf(EINVALID, "node at index %d has no id", i)
			}
			if _, ok := d.Nodes[id]; ok {
				return Errorf(EINVALID, "duplicate node id %q", id)
			}
			n := list[i].RawNode
			d.Nodes[id] = &n
		}
	case '{':
		if err := json.Unmarshal(nodes, &d.Nodes); err != nil {
			return fmt.Errorf("decoding nodes: %w", err)
		}
		for id, n := range d.Nodes {
			if n == nil {
				d.Nodes[id] = &RawNode{}
			}
		}
	default:
		return Errorf(EINVALID, "nodes must be an array or an object")
	}
	return nil
}

// MarshalJSON encodes the document with nodes keyed by ID. Map keys are
// sorted by encoding/json, so the output is stable for equal documents.
func (d *RawDocument) MarshalJSON() ([]byte, error) {
	nodes, err := json.Marshal(d.Nodes)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rawDocumentJSON{
		FileID:  d.FileID,
		Title:   d.Title,
		Version: d.Version,
		Nodes:   nodes,
	})
}
