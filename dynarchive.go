// Package dynarchive provides a local, searchable archive of outliner documents.
// It imports exported document trees, flattens them into addressable rows,
// and serves full-text search, tree navigation and subtree rendering over them.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, etree/, slog/).
package dynarchive

// BaseURL is the web address deep links point at.
const BaseURL = "https://dynalist.io/d/"

// NodeURL returns a deep link to a node. The root node links to the document.
func NodeURL(documentID, nodeID string) string {
	u := BaseURL + documentID
	if nodeID != "" && nodeID != RootID {
		u += "#z=" + nodeID
	}
	return u
}
