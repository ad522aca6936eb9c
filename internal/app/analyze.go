package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/discord"
	"github.com/theballaam96/candyctl/internal/report"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		number int
		action string
		dryRun bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check a pull request and report the result on it",
		Long: `Read a pull request, parse its song submission, and post the
analysis as a PR comment. When nothing needs changing the verifiers
are notified on Discord as well.

Exits 1 when the submission needs changing.

Examples:
  candyctl analyze                  # PR_NUMBER from the environment
  candyctl analyze --pr 123 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if number == 0 {
				var err error
				if number, err = cfg.Event.RequirePR(); err != nil {
					return err
				}
			}
			if action == "" {
				action = cfg.Event.Action
			}
			e, err := commandEnv()
			if err != nil {
				return err
			}
			return e.analyze(cmd.Context(), number, action, !quiet, dryRun)
		},
	}

	cmd.Flags().IntVar(&number, "pr", 0, "Pull request number (default $PR_NUMBER)")
	cmd.Flags().StringVar(&action, "action", "", "Triggering action for the Discord title (default $TRIGGERED_ACTION)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the comment and messages instead of posting them")
	cmd.Flags().BoolVar(&quiet, "no-notify", false, "Only comment on the pull request")
	return cmd
}

// analyze comments the analysis on the pull request and, when the
// submission is acceptable and notify is set, posts the verifier message.
func (e *env) analyze(ctx context.Context, number int, action string, notify, dryRun bool) error {
	in, err := e.inspect(ctx, number)
	if err != nil {
		return err
	}
	a, err := e.analysis(in)
	if err != nil {
		return err
	}
	comment, err := report.AnalysisComment(a)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintln(e.out, comment)
	} else {
		if err := e.gh.CreateComment(ctx, e.owner, e.repo, number, comment); err != nil {
			return err
		}
		ok("Commented analysis on PR #%d", number)
	}

	if a.NeedsChanging() {
		return fmt.Errorf("PR #%d: %w", number, ErrNeedsChanging)
	}
	if !notify {
		return nil
	}
	err = e.notify(ctx, in, a.NewGame, action, dryRun)
	if errors.Is(err, discord.ErrNoWebhook) {
		warn("No submissions webhook configured; skipping Discord notification")
		return nil
	}
	return err
}
