package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/config"
	"github.com/theballaam96/candyctl/internal/discord"
	"github.com/theballaam96/candyctl/internal/ingest"
	"github.com/theballaam96/candyctl/internal/report"
	"github.com/theballaam96/candyctl/internal/submission"
)

func newAppendCmd() *cobra.Command {
	var (
		number       int
		ignoreLabels bool
	)

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Publish a merged song submission",
		Long: `Append a merged pull request's song to mapping.json. The uploaded
binary and preview are moved into binaries/ and previews/, the MIDI
upload is removed, and the song is announced on Discord.

Pull requests that are not song submissions are skipped, as are those
carrying the ignore label (unless --ignore-labels).

Run from the repository checkout after the merge; commit the result.`,
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
			res, err := e.appendPR(cmd.Context(), number, !ignoreLabels)
			if err != nil {
				return err
			}
			if res.skipped != "" {
				warn("Skipped PR #%d: %s", number, res.skipped)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&number, "pr", 0, "Pull request number (default $PR_NUMBER)")
	cmd.Flags().BoolVar(&ignoreLabels, "ignore-labels", false, "Append even when the ignore label is set")
	return cmd
}

// appendResult is what appendPR did with one pull request.
type appendResult struct {
	skipped  string // reason, empty when appended
	appended bool   // the record is in the catalog, even if err != nil
	build    submission.Build
}

// appendPR files a merged submission's uploads, appends its record to the
// catalog, and announces it. The catalog is written before the
// announcement, so a Discord failure never loses a record.
func (e *env) appendPR(ctx context.Context, number int, checkLabels bool) (appendResult, error) {
	in, err := e.inspect(ctx, number)
	if err != nil {
		return appendResult{}, err
	}
	if !in.isSong {
		return appendResult{skipped: "not a song submission"}, nil
	}
	if label := e.cfg.Publish.IgnoreLabel; checkLabels && label != "" && in.pr.HasLabel(label) {
		return appendResult{skipped: "labelled " + label}, nil
	}

	b := in.build
	e.log.Info("publishing", "pr", number, "sub", b.SubPath, "revision", b.Revision)

	moved, err := e.catalog.Relocate(b.SubPath, in.assets.Moves())
	if err != nil {
		return appendResult{}, err
	}
	var preview *ingest.File
	for _, mv := range moved {
		switch {
		case mv.Missing:
			warn("%s is not in the checkout; skipped", mv.Source)
		case mv.Dest != "":
			e.log.Debug("moved", "from", mv.Source, "to", mv.Dest)
			if mv.Dir == catalog.PreviewsDir {
				if preview, err = ingest.ReadFile(e.catalog.Path(mv.Dest)); err != nil {
					return appendResult{}, err
				}
			}
		}
	}

	if _, err := e.catalog.Append(b.Record); err != nil {
		return appendResult{}, err
	}
	ok("Appended %s to %s", b.SubPath, e.cfg.Paths.Catalog)

	res := appendResult{appended: true, build: b}
	if err := e.announce(ctx, b, in.assets.Preview.Ext, preview); err != nil {
		if errors.Is(err, discord.ErrNoWebhook) {
			warn("No public webhook configured; skipping announcement")
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// announce posts the public message for an appended song. The preview is
// attached when one was filed and, outside bgm, is under Discord's limit.
func (e *env) announce(ctx context.Context, b submission.Build, ext string, preview *ingest.File) error {
	attach := attachable(b.Record.String(catalog.FieldCategory), preview)
	msg := report.AnnouncementMessage(report.Announcement{
		Record:          b.Record,
		IsUpdate:        b.Revision > 0,
		BinaryLink:      b.BinaryLink,
		PreviewAttached: attach,
	}, e.now())
	if err := e.post(ctx, config.ChannelPublicFile, msg, false); err != nil {
		return err
	}
	if !attach {
		return nil
	}
	name := discord.AttachmentName(b.Record.String(catalog.FieldSong), ext)
	if err := e.attach(ctx, config.ChannelPublicFile, name, preview, false); err != nil {
		return fmt.Errorf("announcing %s: %w", b.SubPath, err)
	}
	return nil
}
