package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/ledger"
)

func newBatchCmd() *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "batch [PR...]",
		Short: "Publish several merged submissions in one run",
		Long: `Run append for each pull request, in order. Numbers come from the
arguments, else $PR_NUMBER_LIST (comma-separated), else --recent.

Every processed pull request is recorded in the batch ledger, so a
rerun after a failure picks up where it stopped. Listed pull requests
are appended regardless of labels; --recent honours the ignore label.

Examples:
  candyctl batch 101 102 105
  PR_NUMBER_LIST=101,102 candyctl batch
  candyctl batch --recent 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := commandEnv()
			if err != nil {
				return err
			}
			l, err := ledger.Open(cfg.Resolve(cfg.Paths.Ledger))
			if err != nil {
				return err
			}
			if err := l.Lock(); err != nil {
				return err
			}
			defer l.Unlock()
			e.log.Debug("batch run", "run", l.Run(), "ledger", l.Path())

			numbers, err := parsePRArgs(args)
			if err != nil {
				return err
			}
			if len(numbers) == 0 {
				if numbers, err = cfg.Event.PRNumbers(); err != nil {
					return err
				}
			}
			checkLabels := false
			if len(numbers) == 0 && recent > 0 {
				if numbers, err = e.recentMerged(cmd.Context(), recent); err != nil {
					return err
				}
				checkLabels = true
			}
			if len(numbers) == 0 {
				warn("No pull requests to process")
				return nil
			}

			n, err := e.batch(cmd.Context(), l, numbers, checkLabels)
			if err != nil {
				return err
			}
			ok("Appended %d of %d pull requests", n, len(numbers))
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "Process merged PRs among the N most recently closed")
	return cmd
}

func parsePRArgs(args []string) ([]int, error) {
	var out []int
	for _, a := range args {
		n, err := strconv.Atoi(strings.TrimPrefix(a, "#"))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PR number %q", a)
		}
		out = append(out, n)
	}
	return out, nil
}

// recentMerged lists merged pull requests among the limit most recently
// closed, oldest number first.
func (e *env) recentMerged(ctx context.Context, limit int) ([]int, error) {
	prs, err := e.gh.ListRecentlyClosed(ctx, e.owner, e.repo, limit)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, pr := range prs {
		if pr.Merged {
			out = append(out, pr.Number)
		}
	}
	sort.Ints(out)
	return out, nil
}

// batch appends each pull request not yet in the ledger and returns how
// many were appended. It stops at the first failure.
func (e *env) batch(ctx context.Context, l *ledger.Ledger, numbers []int, checkLabels bool) (int, error) {
	appended := 0
	for _, n := range numbers {
		done, err := l.Contains(n)
		if err != nil {
			return appended, err
		}
		if done {
			e.log.Info("already processed", "pr", n)
			continue
		}

		header("PR #%d", n)
		res, appendErr := e.appendPR(ctx, n, checkLabels)
		if appendErr != nil && !res.appended {
			return appended, fmt.Errorf("PR #%d: %w", n, appendErr)
		}
		// A catalogued record is ledgered even when its announcement failed.
		entry := ledger.Entry{PR: n, Skipped: res.skipped}
		if res.appended {
			appended++
			entry.Game = res.build.Record.String(catalog.FieldGame)
			entry.Song = res.build.Record.String(catalog.FieldSong)
			entry.SubPath = res.build.SubPath
		} else {
			warn("Skipped PR #%d: %s", n, res.skipped)
		}
		if err := l.Append(entry); err != nil {
			return appended, fmt.Errorf("recording PR #%d in %s: %w", n, l.Path(), err)
		}
		if appendErr != nil {
			return appended, fmt.Errorf("PR #%d: %w", n, appendErr)
		}
	}
	return appended, nil
}
