package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/config"
	ghclient "github.com/theballaam96/candyctl/internal/github"
	"github.com/theballaam96/candyctl/internal/report"
)

func newCommentCmd() *cobra.Command {
	var (
		number int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Ping the submitter on Discord about a new PR comment",
		Long: `Post a new-comment notice to the PR comment channel. The pull
request's author is mentioned when discord_mapping.json lists them.
$COMMENT_USER and $COMMENT_TEXT, when set, add a quote of the comment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if number == 0 {
				var err error
				if number, err = cfg.Event.RequirePR(); err != nil {
					return err
				}
			}
			e, err := commandEnv()
			if err != nil {
				return err
			}
			return e.comment(cmd.Context(), number, cfg.Event.CommentUser, cfg.Event.CommentText, dryRun)
		},
	}

	cmd.Flags().IntVar(&number, "pr", 0, "Pull request number (default $PR_NUMBER)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the message instead of posting it")
	return cmd
}

func (e *env) comment(ctx context.Context, number int, user, text string, dryRun bool) error {
	pr, err := e.gh.GetPullRequest(ctx, e.owner, e.repo, number)
	if err != nil {
		return err
	}
	prURL := e.cfg.Event.PRURL
	if prURL == "" {
		prURL = pr.HTMLURL
	}

	mention, err := e.mention(ctx, pr.Author)
	if err != nil {
		// A missing mention only loses the ping.
		warn("Could not resolve Discord user for %s: %v", pr.Author, err)
	}
	if err := e.post(ctx, config.ChannelPRComment, report.CommentMessage(mention, prURL, user, text), dryRun); err != nil {
		return err
	}
	if !dryRun {
		ok("Posted comment notice for PR #%d", number)
	}
	return nil
}

// mention looks up a GitHub login in discord_mapping.json, read from the
// checkout when present and from the repository otherwise.
func (e *env) mention(ctx context.Context, login string) (string, error) {
	if login == "" || login == "Unknown" {
		return "", nil
	}
	rel := e.cfg.Paths.DiscordMapping
	data, err := os.ReadFile(e.cfg.Resolve(rel))
	if errors.Is(err, os.ErrNotExist) {
		data, err = e.gh.GetFileContent(ctx, e.owner, e.repo, rel, e.cfg.Branch)
		if errors.Is(err, ghclient.ErrNotFound) {
			return "", nil
		}
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rel, err)
	}
	return report.LookupMention(data, login)
}
