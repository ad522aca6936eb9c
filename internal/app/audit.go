package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/catalog"
)

func newAuditCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check mapping.json against the files in the repository",
		Long: `Report records whose binary is missing or whose repository-hosted
preview is gone, and preview files no record references.
Use --fix to delete the unreferenced previews.

Examples:
  candyctl audit
  candyctl audit --fix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := commandEnv()
			if err != nil {
				return err
			}
			return e.audit(fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Delete unreferenced preview files")
	return cmd
}

func (e *env) audit(fix bool) error {
	records, err := e.catalog.Load()
	if err != nil {
		return err
	}
	rep, err := e.catalog.Audit(records, e.rawBase())
	if err != nil {
		return err
	}

	header("Catalog: %d records", len(records))
	if len(rep.Issues) > 0 {
		renderIssues(e.out, rep.Issues)
	}
	if len(rep.Orphans) > 0 {
		fmt.Fprintln(e.out)
		header("Unreferenced previews: %d", len(rep.Orphans))
		for _, p := range rep.Orphans {
			fmt.Fprintf(e.out, "  %s\n", p)
		}
	}

	if fix && len(rep.Orphans) > 0 {
		if err := e.catalog.RemovePreviews(rep.Orphans); err != nil {
			return err
		}
		ok("Removed %d unreferenced previews", len(rep.Orphans))
	}

	fmt.Fprintln(e.out)
	switch {
	case len(rep.Issues) == 0 && len(rep.Orphans) == 0:
		ok("No issues found")
	case !fix && len(rep.Orphans) > 0:
		warn("%d issues found. Run with --fix to delete unreferenced previews.", len(rep.Issues)+len(rep.Orphans))
	case len(rep.Issues) > 0:
		warn("%d records need attention", len(rep.Issues))
	}
	return nil
}

func renderIssues(w io.Writer, issues []catalog.Issue) {
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, []string{strconv.Itoa(is.Index), is.Game, is.Song, string(is.Kind), is.Path})
	}
	t := table.New().
		Headers("INDEX", "GAME", "SONG", "ISSUE", "PATH").
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 2, 0, 0)
			if row == table.HeaderRow && !color.NoColor {
				return s.Bold(true).Foreground(lipgloss.Color("6"))
			}
			return s
		})
	fmt.Fprintln(w, t.String())
}
