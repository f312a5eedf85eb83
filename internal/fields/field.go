// Package fields discovers the editable text spans of a parsed page and
// applies batched edits back onto the original source bytes. It never
// re-serializes the document: all mutation happens through targeted byte
// splices, so formatting, comments, and code regions survive untouched.
package fields

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes element/component text content from attribute values.
type Kind string

const (
	KindText      Kind = "text"
	KindAttribute Kind = "attr"
)

// Field is one editable span. Offset and Length are measured in UTF-8
// bytes of the source the field was extracted from; Value is always the
// exact decoding of those bytes. Fields are recomputed from source on
// every call and never persisted.
type Field struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Kind      Kind   `json:"kind"`
	Offset    int    `json:"offset"`
	Length    int    `json:"length"`
	Multiline bool   `json:"multiline"`
	Group     string `json:"group,omitempty"`
}

// Edit is one proposed change, keyed by a Field ID from an earlier
// extraction. An empty OldValue marks an insertion into a still-empty
// field.
type Edit struct {
	ID       string `json:"id"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// TextID derives the field ID for a text span at the given byte offset.
func TextID(offset int) string {
	return fmt.Sprintf("text-%d", offset)
}

// AttrID derives the field ID for an attribute value at the given byte offset.
func AttrID(offset int, name string) string {
	return fmt.Sprintf("attr-%d-%s", offset, name)
}

// parseID recovers the kind and byte offset a field ID was derived from.
// The offset anchors the fallback search when a stale ID no longer matches
// any freshly extracted field.
func parseID(id string) (Kind, int, bool) {
	rest, ok := strings.CutPrefix(id, string(KindText)+"-")
	kind := KindText
	if !ok {
		rest, ok = strings.CutPrefix(id, string(KindAttribute)+"-")
		kind = KindAttribute
	}
	if !ok {
		return "", 0, false
	}
	numEnd := len(rest)
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		numEnd = i
	}
	off, err := strconv.Atoi(rest[:numEnd])
	if err != nil || off < 0 {
		return "", 0, false
	}
	return kind, off, true
}
