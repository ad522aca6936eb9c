package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/config"
	"github.com/theballaam96/candyctl/internal/discord"
	ghclient "github.com/theballaam96/candyctl/internal/github"
	"github.com/theballaam96/candyctl/internal/ingest"
	"github.com/theballaam96/candyctl/internal/midi"
	"github.com/theballaam96/candyctl/internal/submission"
)

// ErrNeedsChanging is returned by analyze after reporting a submission
// that cannot be merged as is.
var ErrNeedsChanging = errors.New("submission needs changing")

// env carries everything an operation touches. Commands build one from the
// loaded config; tests build one around fake servers.
type env struct {
	cfg     *config.Config
	owner   string
	repo    string
	gh      *ghclient.Client
	discord *discord.Client
	fetch   *ingest.Fetcher
	catalog *catalog.Manager
	log     *log.Logger
	out     io.Writer
	now     func() time.Time
}

func newEnv(c *config.Config, l *log.Logger) (*env, error) {
	owner, repo, err := ghclient.SplitRepo(c.Repository)
	if err != nil {
		return nil, err
	}
	gh, err := ghclient.New(c.GitHub.Token, c.GitHub.APIBase)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = log.New(io.Discard)
	}
	return &env{
		cfg:     c,
		owner:   owner,
		repo:    repo,
		gh:      gh,
		discord: discord.New(),
		fetch:   ingest.NewFetcher(c.GitHub.Token),
		catalog: catalog.NewManager(c.Paths.Root, c.Paths.Catalog),
		log:     l,
		out:     os.Stdout,
		now:     time.Now,
	}, nil
}

// commandEnv builds the env for the running command.
func commandEnv() (*env, error) {
	return newEnv(cfg, logger)
}

func (e *env) rawBase() string {
	return submission.RawBase(e.cfg.Repository, e.cfg.Branch)
}

func (e *env) builder() *submission.Builder {
	return &submission.Builder{
		RawBase: e.rawBase(),
		MIDI:    midi.NewRemote(e.fetch),
		Now:     e.now,
	}
}

// attachable reports whether a preview may be uploaded. bgm previews are
// always attached; others must be under the webhook limit.
func attachable(category string, f *ingest.File) bool {
	return f != nil && (category == "bgm" || f.Size < discord.MaxAttachmentBytes)
}

// post sends msg to a Discord channel. With dryRun the payload is printed
// instead.
func (e *env) post(ctx context.Context, ch config.Channel, msg discord.Message, dryRun bool) error {
	if dryRun {
		data, err := json.MarshalIndent(msg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "--- discord %s ---\n%s\n", ch, data)
		return nil
	}
	e.log.Debug("posting to discord", "channel", ch, "embeds", len(msg.Embeds))
	if err := e.discord.Execute(ctx, e.cfg.Discord.WebhookFor(ch), msg); err != nil {
		return fmt.Errorf("posting to %s: %w", ch, err)
	}
	return nil
}

// attach uploads a file to a Discord channel. With dryRun only its name
// and size are printed.
func (e *env) attach(ctx context.Context, ch config.Channel, name string, f *ingest.File, dryRun bool) error {
	if dryRun {
		fmt.Fprintf(e.out, "--- discord %s attachment: %s (%d bytes, %s) ---\n", ch, name, f.Size, f.ContentType)
		return nil
	}
	e.log.Debug("uploading attachment", "channel", ch, "file", name, "bytes", f.Size, "sha256", f.SHA256)
	if err := e.discord.Upload(ctx, e.cfg.Discord.WebhookFor(ch), name, f.ContentType, f.Data); err != nil {
		return fmt.Errorf("uploading %s to %s: %w", name, ch, err)
	}
	return nil
}
