// Package github reads pull requests and posts comments on the shop
// repository.
package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v59/github"
)

const defaultAPIBase = "https://api.github.com"

// Client is an authenticated GitHub API client.
type Client struct {
	gh *gh.Client
}

// New creates a Client with the given token and API base URL.
// If apiBase is empty, the public GitHub API is used.
func New(token, apiBase string) (*Client, error) {
	client := gh.NewClient(&http.Client{Timeout: 2 * time.Minute})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if apiBase != "" && strings.TrimRight(apiBase, "/") != defaultAPIBase {
		base, err := url.Parse(strings.TrimRight(apiBase, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base %q: %w", apiBase, err)
		}
		client.BaseURL = base
	}
	return &Client{gh: client}, nil
}

// SplitRepo splits "owner/repo".
func SplitRepo(full string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(full, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", full)
	}
	return owner, repo, nil
}

// checkErr maps go-github error responses onto the package's sentinel errors.
func checkErr(err error) error {
	if err == nil {
		return nil
	}
	var er *gh.ErrorResponse
	if !errors.As(err, &er) || er.Response == nil {
		return err
	}
	switch er.Response.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("github API error %d: %s", er.Response.StatusCode, er.Message)
	}
}
