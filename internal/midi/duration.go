// Package midi measures the playing time of standard MIDI files.
package midi

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/theballaam96/candyctl/internal/ingest"
)

// Duration returns the length of a standard MIDI file in seconds, taking
// tempo changes into account. The end is the last event of the longest
// track.
func Duration(r io.Reader) (float64, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return 0, fmt.Errorf("parsing MIDI: %w", err)
	}
	if _, ok := s.TimeFormat.(smf.MetricTicks); !ok {
		return 0, fmt.Errorf("unsupported MIDI time format %s", s.TimeFormat)
	}
	var end int64
	for _, tr := range s.Tracks {
		var ticks int64
		for _, ev := range tr {
			ticks += int64(ev.Delta)
		}
		if ticks > end {
			end = ticks
		}
	}
	return float64(s.TimeAt(end)) / 1e6, nil
}

// Remote measures MIDI files attached to a pull request.
type Remote struct {
	fetcher *ingest.Fetcher
}

// NewRemote returns a Remote that downloads with f.
func NewRemote(f *ingest.Fetcher) *Remote {
	return &Remote{fetcher: f}
}

// Duration downloads the file behind a GitHub raw link and measures it.
func (m *Remote) Duration(ctx context.Context, rawURL string) (float64, error) {
	file, err := m.fetcher.Fetch(ctx, ingest.AdjustRawURL(rawURL))
	if err != nil {
		return 0, err
	}
	return Duration(bytes.NewReader(file.Data))
}
