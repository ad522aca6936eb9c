package app

import (
	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/pack"
)

func newPackCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Build the full song pack",
		Long: `Write every catalogued song into one zip of .candy files, newest
revision first. A song name already packed is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := commandEnv()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Resolve(cfg.Paths.Pack)
			}
			return e.pack(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Pack file (default paths.pack under the root)")
	return cmd
}

func (e *env) pack(output string) error {
	records, err := e.catalog.Load()
	if err != nil {
		return err
	}
	images, err := catalog.LoadImages(e.cfg.Resolve(e.cfg.Paths.Images))
	if err != nil {
		return err
	}
	res, err := pack.Build(output, records, images, pack.FileSource(e.catalog))
	if err != nil {
		return err
	}
	for _, d := range res.Duplicates {
		e.log.Debug("skipping duplicate song", "song", d)
	}
	for _, s := range res.Skipped {
		warn("No binary for %s", s)
	}
	ok("Packed %d songs into %s", len(res.Added), output)
	return nil
}
