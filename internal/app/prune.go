package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Mark superseded previews in mapping.json",
		Long: `Only the latest record of a song keeps its preview. Older records
that link a repository-hosted preview are marked "pruned": true.
Preview files the latest records no longer use are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := commandEnv()
			if err != nil {
				return err
			}
			return e.prune(dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without rewriting mapping.json")
	return cmd
}

func (e *env) prune(dryRun bool) error {
	records, err := e.catalog.Load()
	if err != nil {
		return err
	}
	marked, unused, err := e.catalog.Prune(records, e.rawBase())
	if err != nil {
		return err
	}

	for _, p := range unused {
		fmt.Fprintf(e.out, "unused preview: %s\n", p)
	}
	if marked == 0 {
		ok("No previews to prune (%d unused files)", len(unused))
		return nil
	}
	if dryRun {
		warn("Would mark %d records as pruned", marked)
		return nil
	}
	if err := e.catalog.Save(records); err != nil {
		return err
	}
	ok("Marked %d records as pruned (%d unused files)", marked, len(unused))
	return nil
}
