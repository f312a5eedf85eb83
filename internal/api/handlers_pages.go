package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smerrill5/pagedit/internal/fields"
	"github.com/smerrill5/pagedit/internal/mdfields"
	"github.com/smerrill5/pagedit/internal/preview"
	"github.com/smerrill5/pagedit/internal/store"
)

type pageSummary struct {
	Path    string `json:"path"`
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// handleListPages lists every editable page with a title/excerpt preview.
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paths, err := s.store.List(ctx)
	if err != nil {
		jsonError(w, "failed to list pages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := make([]pageSummary, 0, len(paths))
	for _, path := range paths {
		summary := pageSummary{Path: path}
		if src, err := s.store.Read(ctx, path); err == nil && int64(len(src)) <= s.cfg.MaxDocumentBytes {
			summary.Title, summary.Excerpt = s.previewFor(path, src)
		}
		summaries = append(summaries, summary)
	}
	respondJSON(w, http.StatusOK, map[string]any{"pages": summaries})
}

// handlePageFields extracts the editable fields of one page.
func (s *Server) handlePageFields(w http.ResponseWriter, r *http.Request) {
	path, src, ok := s.fetchPage(w, r)
	if !ok {
		return
	}
	fs, err := extractFor(path, src)
	if err != nil {
		jsonError(w, "cannot parse page: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if fs == nil {
		fs = []fields.Field{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"path": path, "fields": fs})
}

type editsRequest struct {
	Path  string        `json:"path"`
	Edits []fields.Edit `json:"edits"`
}

// handlePageEdits applies a batch of edits and persists the result. The
// source is re-read on every attempt, so a concurrent writer costs a
// retry, not a lost update.
func (s *Server) handlePageEdits(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)
	var req editsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}
	if !store.IsEditable(req.Path) {
		jsonError(w, "not an editable page type", http.StatusBadRequest)
		return
	}
	if len(req.Edits) == 0 {
		jsonError(w, "edits are required", http.StatusBadRequest)
		return
	}
	if s.sanitizer != nil {
		for i := range req.Edits {
			req.Edits[i].NewValue = s.sanitizer.Sanitize(req.Edits[i].NewValue)
		}
	}

	ctx := r.Context()
	var updated string
	for attempt := 0; ; attempt++ {
		src, err := s.store.Read(ctx, req.Path)
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "page not found", http.StatusNotFound)
			return
		}
		if err != nil {
			jsonError(w, "failed to read page: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if int64(len(src)) > s.cfg.MaxDocumentBytes {
			jsonError(w, "page exceeds size limit", http.StatusRequestEntityTooLarge)
			return
		}

		updated, err = applyFor(req.Path, src, req.Edits)
		if err != nil {
			jsonError(w, "cannot parse page: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}

		err = s.store.Write(ctx, req.Path, updated)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrConflict) {
			jsonError(w, "failed to write page: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if attempt+1 >= s.cfg.WriteRetries {
			jsonError(w, "write conflict persisted after retries", http.StatusConflict)
			return
		}
		s.log.Info("write conflict, retrying", "path", req.Path, "attempt", attempt+1)
	}

	// Hand back the fields of the saved source so the editor can refresh
	// its ids and offsets in one round trip.
	fs, err := extractFor(req.Path, updated)
	if err != nil {
		fs = nil
	}
	if fs == nil {
		fs = []fields.Field{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"path": req.Path, "fields": fs})
}

// handlePagePreview returns the title/excerpt of one page.
func (s *Server) handlePagePreview(w http.ResponseWriter, r *http.Request) {
	path, src, ok := s.fetchPage(w, r)
	if !ok {
		return
	}
	title, excerpt := s.previewFor(path, src)
	respondJSON(w, http.StatusOK, pageSummary{Path: path, Title: title, Excerpt: excerpt})
}

// fetchPage validates the path query parameter and reads the page,
// writing the error response itself when something is off.
func (s *Server) fetchPage(w http.ResponseWriter, r *http.Request) (path, src string, ok bool) {
	path = r.URL.Query().Get("path")
	if path == "" {
		jsonError(w, "path query parameter is required", http.StatusBadRequest)
		return "", "", false
	}
	if !store.IsEditable(path) {
		jsonError(w, "not an editable page type", http.StatusBadRequest)
		return "", "", false
	}
	src, err := s.store.Read(r.Context(), path)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "page not found", http.StatusNotFound)
		return "", "", false
	}
	if err != nil {
		jsonError(w, "failed to read page: "+err.Error(), http.StatusInternalServerError)
		return "", "", false
	}
	if int64(len(src)) > s.cfg.MaxDocumentBytes {
		jsonError(w, "page exceeds size limit", http.StatusRequestEntityTooLarge)
		return "", "", false
	}
	return path, src, true
}

func (s *Server) previewFor(path, src string) (title, excerpt string) {
	if store.IsMarkdown(path) {
		p := preview.Markdown(src)
		return p.Title, p.Excerpt
	}
	p, err := preview.Markup(src)
	if err != nil {
		return "", ""
	}
	return p.Title, p.Excerpt
}

// extractFor routes a page to the extractor for its format.
func extractFor(path, src string) ([]fields.Field, error) {
	if store.IsMarkdown(path) {
		return mdfields.Extract(src)
	}
	return fields.Extract(src)
}

// applyFor routes a page to the patch applier for its format.
func applyFor(path, src string, edits []fields.Edit) (string, error) {
	if store.IsMarkdown(path) {
		return mdfields.ApplyEdits(src, edits)
	}
	return fields.ApplyEdits(src, edits)
}
