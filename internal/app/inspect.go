package app

import (
	"context"
	"fmt"

	"github.com/theballaam96/candyctl/internal/catalog"
	ghclient "github.com/theballaam96/candyctl/internal/github"
	"github.com/theballaam96/candyctl/internal/report"
	"github.com/theballaam96/candyctl/internal/submission"
)

// inspection is a pull request read back as a submission.
type inspection struct {
	pr     *ghclient.PullRequest
	assets submission.Assets
	fields catalog.Record
	isSong bool
	build  submission.Build // zero unless isSong
}

// inspect fetches a pull request with its files and, for song
// submissions, builds the record that merging it would append.
func (e *env) inspect(ctx context.Context, number int) (*inspection, error) {
	pr, err := e.gh.GetPullRequest(ctx, e.owner, e.repo, number)
	if err != nil {
		return nil, err
	}
	files, err := e.gh.ListFiles(ctx, e.owner, e.repo, number)
	if err != nil {
		return nil, err
	}
	changed := make([]submission.ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, submission.ChangedFile{Name: f.Name, RawURL: f.RawURL})
	}

	in := &inspection{pr: pr, assets: submission.Classify(changed)}
	e.log.Debug("classified files", "pr", number,
		"binary", in.assets.Binary.Name, "midi", in.assets.MIDI.Name, "preview", in.assets.Preview.Name)

	in.fields, in.isSong = submission.Parse(pr.Body)
	if !in.isSong {
		return in, nil
	}
	existing, err := e.catalog.Load()
	if err != nil {
		return nil, err
	}
	in.build, err = e.builder().Build(ctx, in.fields, in.assets, existing)
	if err != nil {
		return nil, fmt.Errorf("PR #%d: %w", number, err)
	}
	return in, nil
}

// analysis checks an inspected submission against the schema and the
// known games in images.json.
func (e *env) analysis(in *inspection) (report.Analysis, error) {
	a := report.Analysis{IsSong: in.isSong}
	if !in.isSong {
		return a, nil
	}
	a.Record = in.build.Record
	a.Validation = submission.Validate(in.fields, in.assets)

	game := in.fields.String(catalog.FieldGame)
	if game == "" {
		return a, nil
	}
	games, err := catalog.LoadGames(e.cfg.Resolve(e.cfg.Paths.Images))
	if err != nil {
		return a, err
	}
	if !submission.IsKnownGame(game, games) {
		a.NewGame = true
		if best, score, ok := submission.SimilarGame(game, games); ok {
			a.SimilarGame, a.SimilarScore = best, score
		}
	}
	return a, nil
}
