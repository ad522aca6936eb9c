package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/config"
	"github.com/theballaam96/candyctl/internal/discord"
	"github.com/theballaam96/candyctl/internal/ingest"
	"github.com/theballaam96/candyctl/internal/report"
)

func newNotifyCmd() *cobra.Command {
	var (
		number int
		action string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Tell the verifiers about a pull request event",
		Long: `Post a pull request event to the submissions channel. Song
submissions get a summary embed, link buttons, and the uploaded
preview as an attachment.

Examples:
  candyctl notify --action synchronize
  candyctl notify --pr 123 --dry-run`,
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
			in, err := e.inspect(cmd.Context(), number)
			if err != nil {
				return err
			}
			a, err := e.analysis(in)
			if err != nil {
				return err
			}
			return e.notify(cmd.Context(), in, a.NewGame, action, dryRun)
		},
	}

	cmd.Flags().IntVar(&number, "pr", 0, "Pull request number (default $PR_NUMBER)")
	cmd.Flags().StringVar(&action, "action", "", "Triggering action (default $TRIGGERED_ACTION)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the messages instead of posting them")
	return cmd
}

// notify posts the submission message for an inspected pull request and
// attaches its preview.
func (e *env) notify(ctx context.Context, in *inspection, newGame bool, action string, dryRun bool) error {
	s := report.Submission{
		IsSong:    in.isSong,
		Submitter: in.pr.Author,
		PRURL:     in.pr.HTMLURL,
		NewGame:   newGame,
		BinaryURL: in.assets.Binary.RawURL,
		MIDIURL:   in.assets.MIDI.RawURL,
	}
	if in.isSong {
		// Submitted fields only: the built Audio link does not exist
		// until merge. The measured duration is worth showing.
		s.Record = in.fields.Clone()
		if d, ok := in.build.Record.Get(catalog.FieldDuration); ok {
			s.Record.Set(catalog.FieldDuration, d)
		}
	}
	if err := e.post(ctx, config.ChannelSubmissions, report.SubmissionMessage(s, action, e.now()), dryRun); err != nil {
		return err
	}
	if !dryRun {
		ok("Notified verifiers about PR #%d", in.pr.Number)
	}

	preview := in.assets.Preview
	if !in.isSong || preview.RawURL == "" {
		return nil
	}
	f, err := e.fetch.Fetch(ctx, ingest.AdjustRawURL(preview.RawURL))
	if err != nil {
		return fmt.Errorf("fetching preview %s: %w", preview.Name, err)
	}
	e.log.Debug("fetched preview", "file", preview.Name, "bytes", f.Size, "sha256", f.SHA256)
	if !attachable(in.fields.String(catalog.FieldCategory), f) {
		warn("Preview %s is %d bytes, over the attachment limit; not attached", preview.Name, f.Size)
		return nil
	}
	name := discord.AttachmentName(in.fields.String(catalog.FieldSong), preview.Ext)
	return e.attach(ctx, config.ChannelSubmissions, name, f, dryRun)
}
