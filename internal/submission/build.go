package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/theballaam96/candyctl/internal/catalog"
)

// DurationSource measures a MIDI file published at a raw GitHub URL.
type DurationSource interface {
	Duration(ctx context.Context, rawURL string) (float64, error)
}

// RawBase returns the download prefix for files on a repository branch.
func RawBase(repo, branch string) string {
	return "https://github.com/" + repo + "/raw/" + branch
}

// Builder assembles catalog records from parsed submissions.
type Builder struct {
	RawBase string
	MIDI    DurationSource // nil skips duration lookup
	Now     func() time.Time
}

// Build is a finished record plus the naming it was derived from.
type Build struct {
	Record     catalog.Record
	SubPath    string
	Revision   int
	BinaryLink string // absolute download link, empty without a binary
}

// Build derives Audio, Binary, Duration, Verified and Date from the fields
// and assets. The revision is the number of existing records with the same
// Game and Song. A MIDI fetch or parse failure is returned as an error.
func (b *Builder) Build(ctx context.Context, fields catalog.Record, assets Assets, existing []catalog.Record) (Build, error) {
	rec := fields.Clone()
	game, _ := rec.Get(catalog.FieldGame)
	song, _ := rec.Get(catalog.FieldSong)

	out := Build{Revision: catalog.Revisions(existing, game, song)}
	out.SubPath = catalog.SubPath(rec.String(catalog.FieldGame), rec.String(catalog.FieldSong), out.Revision)

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	rec.Set(catalog.FieldVerified, true)
	rec.Set(catalog.FieldDate, now().Format(time.RFC3339))

	if assets.Preview.Present() {
		rec.Set(catalog.FieldAudio, catalog.EncodeURI(b.RawBase+"/"+catalog.AssetPath(catalog.PreviewsDir, out.SubPath, assets.Preview.Ext)))
	}
	if assets.Binary.Present() {
		rel := catalog.AssetPath(catalog.BinariesDir, out.SubPath, "bin")
		rec.Set(catalog.FieldBinary, rel)
		out.BinaryLink = catalog.EncodeURI(b.RawBase + "/" + rel)
	}
	if assets.MIDI.Present() && b.MIDI != nil {
		d, err := b.MIDI.Duration(ctx, assets.MIDI.RawURL)
		if err != nil {
			return Build{}, fmt.Errorf("reading MIDI duration for %s: %w", assets.MIDI.Name, err)
		}
		rec.Set(catalog.FieldDuration, d)
	}

	out.Record = rec
	return out, nil
}
