// Package pack bundles every catalogued song into a single download.
//
// The pack is a zip of .candy files, one per song, stored under the song's
// category. Each .candy file is itself a zip holding song.bin and a
// data.json description.
package pack

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/theballaam96/candyctl/internal/catalog"
)

// DefaultPath is the pack location relative to the repository root.
const DefaultPath = "full_pack.zip"

// SongData is the data.json stored inside each .candy file.
type SongData struct {
	Song      any    `json:"song"`
	SongShort any    `json:"song_short"`
	Game      any    `json:"game"`
	GameShort string `json:"game_short"`
	Group     any    `json:"group"`
	Length    any    `json:"length"`
	Logo      string `json:"logo"`
	Composer  any    `json:"composer"`
	Converter any    `json:"converter"`
	Audio     any    `json:"audio"`
	Tags      any    `json:"tags"`
}

// Result lists what Write did with each record.
type Result struct {
	Added      []string // entry names, in pack order
	Duplicates []string // song names already packed from a newer record
	Skipped    []string // "Game: Song" of records whose binary could not be read
}

// Source reads a repository-relative file.
type Source func(rel string) ([]byte, error)

// Write packs records newest first. A song name that was already packed
// is skipped, so only its latest revision ships.
func Write(w io.Writer, records []catalog.Record, images map[string]catalog.GameImage, read Source) (Result, error) {
	var res Result
	zw := zip.NewWriter(w)
	seen := map[string]bool{}

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		name := r.String(catalog.FieldSong)
		if seen[name] {
			res.Duplicates = append(res.Duplicates, name)
			continue
		}
		bin := r.String(catalog.FieldBinary)
		if bin == "" {
			res.Skipped = append(res.Skipped, label(r))
			continue
		}
		data, err := read(bin)
		if err != nil {
			res.Skipped = append(res.Skipped, label(r))
			continue
		}

		candy, err := candyFile(data, songData(r, images))
		if err != nil {
			return res, fmt.Errorf("packing %s: %w", label(r), err)
		}
		entry := r.String(catalog.FieldCategory) + "/" + strings.ReplaceAll(name, "/", "_") + ".candy"
		f, err := zw.Create(entry)
		if err != nil {
			return res, err
		}
		if _, err := f.Write(candy); err != nil {
			return res, err
		}
		res.Added = append(res.Added, entry)
		seen[name] = true
	}
	if err := zw.Close(); err != nil {
		return res, err
	}
	return res, nil
}

// Build writes the pack to path, replacing any previous pack atomically.
func Build(path string, records []catalog.Record, images map[string]catalog.GameImage, read Source) (Result, error) {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return Result{}, err
	}
	defer pf.Cleanup()

	res, err := Write(pf, records, images, read)
	if err != nil {
		return res, err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// FileSource reads files relative to a catalog manager's root.
func FileSource(m *catalog.Manager) Source {
	return func(rel string) ([]byte, error) {
		return os.ReadFile(m.Path(rel))
	}
}

func songData(r catalog.Record, images map[string]catalog.GameImage) SongData {
	get := func(key string, def any) any {
		if v, ok := r.Get(key); ok {
			return v
		}
		return def
	}
	game := r.String(catalog.FieldGame)
	d := SongData{
		Song:      get(catalog.FieldSong, ""),
		SongShort: get(catalog.FieldSong, ""),
		Game:      get(catalog.FieldGame, ""),
		GameShort: game,
		Group:     get(catalog.FieldCategory, ""),
		Length:    get(catalog.FieldDuration, 0),
		Composer:  get(catalog.FieldComposers, ""),
		Converter: get(catalog.FieldConverters, ""),
		Audio:     get(catalog.FieldAudio, ""),
		Tags:      get(catalog.FieldTags, []string{}),
	}
	if img, ok := images[game]; ok {
		d.Logo = img.Icon
		if img.ShortName != "" {
			d.GameShort = img.ShortName
		}
	}
	return d
}

func candyFile(bin []byte, data SongData) ([]byte, error) {
	meta, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range []struct {
		name string
		body []byte
	}{
		{"song.bin", bin},
		{"data.json", meta},
	} {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.body); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func label(r catalog.Record) string {
	return r.String(catalog.FieldGame) + ": " + r.String(catalog.FieldSong)
}
