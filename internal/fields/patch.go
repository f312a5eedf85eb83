package fields

import (
	"github.com/smerrill5/pagedit/internal/textspan"
)

// editSearchWindow bounds the fallback search for an edit's old value when
// its recorded offset no longer matches the current source.
const editSearchWindow = 200

// ApplyEdits rewrites source with every resolvable edit applied. Fields
// are always re-extracted from the source as given — cached field lists
// from an earlier request may be stale — and each edit is resolved
// independently: an edit that cannot be located safely is dropped, never
// guessed at, and never fails the batch. The only error is an unparsable
// source.
func ApplyEdits(source string, edits []Edit) (string, error) {
	fresh, err := Extract(source)
	if err != nil {
		return "", err
	}
	return textspan.Apply(source, ResolveEdits(source, fresh, edits)), nil
}

// ResolveEdits maps edits onto byte splices against source, given the
// fields freshly extracted from that same source. Resolution order per
// edit: exact field match with byte-verified old value; then a bounded
// search for the old value near the field's offset; then near the offset
// encoded in the edit's ID when the field itself has vanished.
func ResolveEdits(source string, fresh []Field, edits []Edit) []textspan.Splice {
	byID := make(map[string]Field, len(fresh))
	for _, f := range fresh {
		byID[f.ID] = f
	}

	var splices []textspan.Splice
	for _, e := range edits {
		if s, ok := resolve(source, byID, e); ok {
			splices = append(splices, s)
		}
	}
	return splices
}

func resolve(source string, byID map[string]Field, e Edit) (textspan.Splice, bool) {
	f, found := byID[e.ID]

	if e.OldValue == "" {
		// Insertion into a still-empty field. An empty string cannot be
		// searched for, so this requires an exact match on a field that
		// is still empty.
		if !found || f.Length != 0 {
			return textspan.Splice{}, false
		}
		return textspan.Splice{Offset: f.Offset, Text: e.NewValue}, true
	}

	anchor := -1
	if found {
		if textspan.SliceEquals(source, f.Offset, e.OldValue) {
			return textspan.Splice{Offset: f.Offset, Length: len(e.OldValue), Text: e.NewValue}, true
		}
		anchor = f.Offset
	} else if _, off, ok := parseID(e.ID); ok {
		// The field vanished, typically because an upstream edit shifted
		// every offset-derived ID. The ID still remembers where the span
		// used to be.
		anchor = off
	} else {
		return textspan.Splice{}, false
	}

	if off := textspan.FindNear(source, e.OldValue, anchor, editSearchWindow); off >= 0 {
		return textspan.Splice{Offset: off, Length: len(e.OldValue), Text: e.NewValue}, true
	}
	return textspan.Splice{}, false
}
