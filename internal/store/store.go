// Package store provides whole-file text storage for pages. The editing
// core never touches storage itself; it only needs get/put semantics over
// the page source, so backends stay interchangeable.
package store

import (
	"context"
	"errors"
)

// ErrNotFound reports a page that does not exist.
var ErrNotFound = errors.New("page not found")

// ErrConflict reports a write rejected because the page changed since it
// was last read. Callers re-read and re-apply; the store does not retry.
var ErrConflict = errors.New("write conflict")

// TextStore reads and writes page source as whole files.
type TextStore interface {
	// Read returns the page text, or ErrNotFound.
	Read(ctx context.Context, path string) (string, error)
	// Write replaces the page text, or returns ErrConflict when the
	// backend detects a concurrent change.
	Write(ctx context.Context, path, content string) error
	// List returns the relative paths of all editable pages.
	List(ctx context.Context) ([]string, error)
}

// editableExts are the page types the editor serves.
var editableExts = map[string]bool{
	".astro": true, ".html": true, ".htm": true, ".md": true,
}

// IsMarkdown reports whether a page path should go through the markdown
// extractor instead of the markup one.
func IsMarkdown(path string) bool {
	return hasExt(path, ".md")
}

// IsEditable reports whether the path is a page type the editor serves.
func IsEditable(path string) bool {
	for ext := range editableExts {
		if hasExt(path, ext) {
			return true
		}
	}
	return false
}

func hasExt(path, ext string) bool {
	return len(path) > len(ext) && path[len(path)-len(ext):] == ext
}
