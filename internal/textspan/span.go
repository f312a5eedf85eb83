// Package textspan holds the byte-offset utilities shared by the field
// extractors and patch appliers. All offsets are measured in UTF-8 bytes of
// the source, never in runes: splicing happens on the raw byte buffer so a
// multi-byte character adjacent to an edited span can never be torn apart
// by character-index arithmetic.
package textspan

import "strings"

// Splice is one scheduled byte-range replacement.
type Splice struct {
	Offset int    // byte offset of the replaced range
	Length int    // byte length of the replaced range; 0 inserts
	Text   string // replacement text
}

// Apply rewrites source by applying splices at the byte level. Splices are
// applied in descending offset order so earlier offsets stay valid as later
// ones are spliced in; a splice overlapping one already applied is skipped.
// The caller guarantees offsets lie within the source.
func Apply(source string, splices []Splice) string {
	if len(splices) == 0 {
		return source
	}
	sorted := make([]Splice, len(splices))
	copy(sorted, splices)
	// Insertion sort by descending offset; batches are small.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Offset > sorted[j-1].Offset; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	buf := []byte(source)
	applied := len(buf) + 1 // start offset of the lowest splice applied so far
	for _, s := range sorted {
		if s.Offset < 0 || s.Offset+s.Length > len(buf) {
			continue
		}
		if s.Offset+s.Length > applied {
			// Overlaps a splice already applied.
			continue
		}
		next := make([]byte, 0, len(buf)-s.Length+len(s.Text))
		next = append(next, buf[:s.Offset]...)
		next = append(next, s.Text...)
		next = append(next, buf[s.Offset+s.Length:]...)
		buf = next
		applied = s.Offset
	}
	return string(buf)
}

// FindNear searches for needle within window bytes on either side of
// around, returning the absolute byte offset of the first occurrence or -1.
// The search window is clamped to the source bounds.
func FindNear(source, needle string, around, window int) int {
	if needle == "" {
		return -1
	}
	lo := around - window
	if lo < 0 {
		lo = 0
	}
	hi := around + window + len(needle)
	if hi > len(source) {
		hi = len(source)
	}
	if lo >= hi {
		return -1
	}
	i := strings.Index(source[lo:hi], needle)
	if i < 0 {
		return -1
	}
	return lo + i
}

// SliceEquals reports whether the source bytes at [offset, offset+len(want))
// are exactly want. False when the range exceeds the source.
func SliceEquals(source string, offset int, want string) bool {
	if offset < 0 || offset+len(want) > len(source) {
		return false
	}
	return source[offset:offset+len(want)] == want
}
