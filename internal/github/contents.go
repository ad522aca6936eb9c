package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v59/github"
)

// GetFileContent fetches a file's decoded content via the Contents API.
// An empty ref reads the default branch.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	var opts *gh.RepositoryContentGetOptions
	if ref != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: ref}
	}
	fc, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, checkErr(err)
	}
	if fc == nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	content, err := fc.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding contents of %s: %w", path, err)
	}
	return []byte(content), nil
}
