package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Remote serves pages from a version-controlled content host over HTTP.
// The host hands out a revision sha with every read; writes carry the last
// sha seen so the host can reject lost updates, which surfaces here as
// ErrConflict.
type Remote struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu   sync.Mutex
	shas map[string]string // last sha seen per page path
}

func NewRemote(baseURL, apiKey string) *Remote {
	return &Remote{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		shas: make(map[string]string),
	}
}

// fileResponse is the body of GET /files/{path}.
type fileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// filePutRequest is the body of PUT /files/{path}.
type filePutRequest struct {
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

func (c *Remote) Read(ctx context.Context, path string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+path, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("read page %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	var file fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("decode page: %w", err)
	}

	c.mu.Lock()
	c.shas[path] = file.SHA
	c.mu.Unlock()

	return file.Content, nil
}

func (c *Remote) Write(ctx context.Context, path, content string) error {
	c.mu.Lock()
	sha := c.shas[path]
	c.mu.Unlock()

	body, err := json.Marshal(filePutRequest{Content: content, SHA: sha})
	if err != nil {
		return fmt.Errorf("marshal page: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/files/"+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		// Stale sha; the next Read refreshes it.
		c.mu.Lock()
		delete(c.shas, path)
		c.mu.Unlock()
		return ErrConflict
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("write page %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	var file fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err == nil && file.SHA != "" {
		c.mu.Lock()
		c.shas[path] = file.SHA
		c.mu.Unlock()
	}
	return nil
}

func (c *Remote) List(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list pages: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Paths []string `json:"paths"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode page list: %w", err)
	}

	var pages []string
	for _, p := range result.Paths {
		if IsEditable(p) {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// Close releases idle connections.
func (c *Remote) Close() {
	c.httpClient.CloseIdleConnections()
}
