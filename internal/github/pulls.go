package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v59/github"
)

// PullRequest is the part of a pull request the shop workflows read.
type PullRequest struct {
	Number  int
	Body    string
	Author  string
	HTMLURL string
	State   string
	Merged  bool
	Labels  []string
}

// HasLabel reports whether the pull request carries the named label.
func (p *PullRequest) HasLabel(name string) bool {
	for _, l := range p.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// File is one entry of a pull request's changed-file listing.
type File struct {
	Name   string
	RawURL string
	Status string
}

func toPullRequest(pr *gh.PullRequest) *PullRequest {
	out := &PullRequest{
		Number:  pr.GetNumber(),
		Body:    pr.GetBody(),
		Author:  pr.GetUser().GetLogin(),
		HTMLURL: pr.GetHTMLURL(),
		State:   pr.GetState(),
		Merged:  pr.GetMerged() || pr.MergedAt != nil,
	}
	if out.Author == "" {
		out.Author = "Unknown"
	}
	for _, l := range pr.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	return out
}

// GetPullRequest fetches a pull request by number.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching PR #%d: %w", number, checkErr(err))
	}
	return toPullRequest(pr), nil
}

// ListFiles returns every file changed by a pull request, in API order.
func (c *Client) ListFiles(ctx context.Context, owner, repo string, number int) ([]File, error) {
	opts := &gh.ListOptions{PerPage: 100}
	var out []File
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files of PR #%d: %w", number, checkErr(err))
		}
		for _, f := range files {
			out = append(out, File{Name: f.GetFilename(), RawURL: f.GetRawURL(), Status: f.GetStatus()})
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListRecentlyClosed returns up to limit closed pull requests, most
// recently updated first.
func (c *Client) ListRecentlyClosed(ctx context.Context, owner, repo string, limit int) ([]*PullRequest, error) {
	if limit <= 0 {
		return nil, nil
	}
	perPage := limit
	if perPage > 100 {
		perPage = 100
	}
	opts := &gh.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	var out []*PullRequest
	for len(out) < limit {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing closed PRs: %w", checkErr(err))
		}
		for _, pr := range prs {
			if len(out) == limit {
				break
			}
			out = append(out, toPullRequest(pr))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// CreateComment posts a comment on a pull request.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{Body: gh.String(body)})
	if err != nil {
		return fmt.Errorf("commenting on PR #%d: %w", number, checkErr(err))
	}
	return nil
}
