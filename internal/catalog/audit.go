package catalog

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theballaam96/candyctl/internal/util"
)

// HostedPath maps a download link under rawBase back to its repository
// path. ok is false for links hosted anywhere else.
func HostedPath(link, rawBase string) (string, bool) {
	prefix := strings.TrimRight(rawBase, "/") + "/"
	if !strings.HasPrefix(link, prefix) {
		return "", false
	}
	rel, err := url.PathUnescape(strings.TrimPrefix(link, prefix))
	if err != nil {
		return "", false
	}
	return rel, true
}

// IssueKind classifies an audit finding.
type IssueKind string

const (
	IssueNoBinary       IssueKind = "no binary"
	IssueBinaryMissing  IssueKind = "binary not found"
	IssuePreviewMissing IssueKind = "preview not found"
)

// Issue is a record whose files are not where the catalog says.
type Issue struct {
	Index int
	Game  string
	Song  string
	Kind  IssueKind
	Path  string
}

// AuditReport is the result of Manager.Audit.
type AuditReport struct {
	Issues  []Issue
	Orphans []string // preview files no record references
}

type songKey struct{ game, song string }

func keyOf(r Record) songKey {
	return songKey{r.String(FieldGame), r.String(FieldSong)}
}

// Audit checks every record's binary and repository-hosted preview. A
// missing preview is not reported when a later record for the same song
// has a working one.
func (m *Manager) Audit(records []Record, rawBase string) (AuditReport, error) {
	var (
		rep        AuditReport
		vacant     []Issue
		referenced = map[string]bool{}
	)
	for i, r := range records {
		key := keyOf(r)
		if !r.Has(FieldBinary) {
			rep.Issues = append(rep.Issues, Issue{Index: i, Game: key.game, Song: key.song, Kind: IssueNoBinary})
		} else if bin := r.String(FieldBinary); !m.exists(bin) {
			rep.Issues = append(rep.Issues, Issue{Index: i, Game: key.game, Song: key.song, Kind: IssueBinaryMissing, Path: bin})
		}

		if !r.Has(FieldAudio) {
			continue
		}
		if rel, hosted := HostedPath(r.String(FieldAudio), rawBase); hosted {
			if !m.exists(rel) {
				vacant = append(vacant, Issue{Index: i, Game: key.game, Song: key.song, Kind: IssuePreviewMissing, Path: rel})
				continue
			}
			referenced[rel] = true
		}
		kept := vacant[:0]
		for _, v := range vacant {
			if v.Game != key.game || v.Song != key.song {
				kept = append(kept, v)
			}
		}
		vacant = kept
	}
	rep.Issues = append(rep.Issues, vacant...)

	files, err := m.previewFiles()
	if err != nil {
		return rep, err
	}
	for _, f := range files {
		if !referenced[f] {
			rep.Orphans = append(rep.Orphans, f)
		}
	}
	return rep, nil
}

// Prune marks every repository-hosted preview that is not the latest for
// its song with "pruned": true. It returns how many records were newly
// marked and the preview files the latest records no longer point at.
func (m *Manager) Prune(records []Record, rawBase string) (marked int, unused []string, err error) {
	latest := map[songKey]string{}
	for _, r := range records {
		latest[keyOf(r)] = r.String(FieldAudio)
	}
	for i := range records {
		r := &records[i]
		audio := r.String(FieldAudio)
		if audio == latest[keyOf(*r)] {
			continue
		}
		if _, hosted := HostedPath(audio, rawBase); !hosted {
			continue
		}
		if v, _ := r.Get(FieldPruned); v == true {
			continue
		}
		r.Set(FieldPruned, true)
		marked++
	}

	used := map[string]bool{}
	for _, audio := range latest {
		if rel, ok := HostedPath(audio, rawBase); ok {
			used[rel] = true
		}
	}
	files, err := m.previewFiles()
	if err != nil {
		return marked, nil, err
	}
	for _, f := range files {
		if !used[f] {
			unused = append(unused, f)
		}
	}
	return marked, unused, nil
}

// RemovePreviews deletes the given preview files and any game directory
// left empty.
func (m *Manager) RemovePreviews(paths []string) error {
	for _, p := range paths {
		if err := os.Remove(m.Path(p)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	_, err := util.RemoveEmptyDirs(m.Path(PreviewsDir))
	return err
}

func (m *Manager) exists(rel string) bool {
	_, err := os.Stat(m.Path(rel))
	return err == nil
}

// previewFiles lists files under the previews directory as slash paths
// relative to the root, sorted.
func (m *Manager) previewFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(m.Path(PreviewsDir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(m.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing previews: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
