package submission

import (
	"strings"

	"github.com/theballaam96/candyctl/internal/catalog"
)

// PreviewExtensions are the audio formats accepted as a preview.
var PreviewExtensions = []string{"wav", "mp3"}

// ChangedFile is one entry of a pull request's file listing.
type ChangedFile struct {
	Name   string
	RawURL string
}

// Asset is a changed file that filled a slot. The zero value is an empty
// slot.
type Asset struct {
	Name   string
	RawURL string
	Ext    string
}

// Present reports whether the slot is filled.
func (a Asset) Present() bool { return a.Name != "" }

// Assets holds at most one binary, one MIDI file and one preview.
type Assets struct {
	Binary  Asset
	MIDI    Asset
	Preview Asset
}

// Extension returns the lowercased text after the last dot, or "" when the
// name has no dot.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Classify assigns changed files to slots by extension. A later file of the
// same kind replaces an earlier one.
func Classify(files []ChangedFile) Assets {
	var a Assets
	for _, f := range files {
		if f.Name == "" {
			continue
		}
		ext := Extension(f.Name)
		asset := Asset{Name: f.Name, RawURL: f.RawURL, Ext: ext}
		switch {
		case ext == "bin":
			a.Binary = asset
		case ext == "mid":
			a.MIDI = asset
		case isPreview(ext):
			a.Preview = asset
		}
	}
	return a
}

func isPreview(ext string) bool {
	for _, e := range PreviewExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Moves lists where each filled slot goes on merge. The binary and preview
// are kept; the MIDI upload is only deleted.
func (a Assets) Moves() []catalog.Move {
	return []catalog.Move{
		{Source: a.Binary.Name, Dir: catalog.BinariesDir, Ext: "bin", Keep: true},
		{Source: a.Preview.Name, Dir: catalog.PreviewsDir, Ext: a.Preview.Ext, Keep: true},
		{Source: a.MIDI.Name, Dir: catalog.MIDIDir, Ext: "mid"},
	}
}
