// Package ingest downloads and reads the files attached to a submission.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps a single download.
const DefaultMaxBytes = 200 << 20

// File is a fully read upload.
type File struct {
	Name        string
	Data        []byte
	Size        int64
	SHA256      string
	ContentType string
}

// Fetcher downloads raw files from GitHub.
type Fetcher struct {
	client   *http.Client
	token    string
	maxBytes int64
}

// NewFetcher creates a fetcher. A non-empty token is sent as a bearer token.
func NewFetcher(token string) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 5 * time.Minute},
		token:    token,
		maxBytes: DefaultMaxBytes,
	}
}

// Fetch downloads url in full.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	file, err := read(guessFilenameFromURL(url), resp.Body, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return file, nil
}

// ReadFile reads a file from the checkout.
func ReadFile(p string) (*File, error) {
	fh, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", p, err)
	}
	defer fh.Close()
	return read(path.Base(strings.ReplaceAll(p, "\\", "/")), fh, 0)
}

func read(name string, r io.Reader, limit int64) (*File, error) {
	rd := NewLimitedReader(r, limit)
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        name,
		Data:        data,
		Size:        rd.Size(),
		SHA256:      rd.SHA256(),
		ContentType: mimetype.Detect(data).String(),
	}, nil
}

// AdjustRawURL turns a github.com/{owner}/{repo}/raw/{ref}/{path} link into
// the equivalent raw.githubusercontent.com link.
func AdjustRawURL(u string) string {
	u = strings.Replace(u, "github.com", "raw.githubusercontent.com", 1)
	return strings.Replace(u, "raw/", "", 1)
}

func guessFilenameFromURL(rawURL string) string {
	if idx := strings.IndexAny(rawURL, "?#"); idx >= 0 {
		rawURL = rawURL[:idx]
	}
	base := path.Base(rawURL)
	if base == "" || base == "." || base == "/" || strings.HasSuffix(rawURL, "/") {
		return "download"
	}
	return base
}
