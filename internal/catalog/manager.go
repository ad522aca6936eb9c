package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theballaam96/candyctl/internal/util"
)

// Manager provides catalog operations against a checked-out shop repository.
// It centralizes the common pattern of load → modify → save.
type Manager struct {
	root        string
	catalogPath string
}

// NewManager creates a manager rooted at the repository checkout.
// catalogPath is relative to root.
func NewManager(root, catalogPath string) *Manager {
	if catalogPath == "" {
		catalogPath = "mapping.json"
	}
	return &Manager{root: root, catalogPath: catalogPath}
}

// Path resolves a slash-separated repository path against the root.
func (m *Manager) Path(rel string) string {
	return filepath.Join(m.root, filepath.FromSlash(rel))
}

// Load reads the catalog. A missing file is an empty catalog.
func (m *Manager) Load() ([]Record, error) {
	return Load(m.Path(m.catalogPath))
}

// Save rewrites the catalog.
func (m *Manager) Save(records []Record) error {
	if err := Save(m.Path(m.catalogPath), records); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// Update loads the catalog, applies fn, and saves the result.
func (m *Manager) Update(fn func([]Record) ([]Record, error)) error {
	records, err := m.Load()
	if err != nil {
		return err
	}
	records, err = fn(records)
	if err != nil {
		return err
	}
	return m.Save(records)
}

// Append adds a record and saves the catalog.
func (m *Manager) Append(r Record) ([]Record, error) {
	var out []Record
	err := m.Update(func(records []Record) ([]Record, error) {
		out = Append(records, r)
		return out, nil
	})
	return out, err
}

// Move describes one uploaded file and where it belongs.
type Move struct {
	Source string // path of the uploaded file, relative to root
	Dir    string // destination root directory, e.g. binaries
	Ext    string
	Keep   bool // false: the upload is only deleted
}

// Moved reports the outcome of one Move.
type Moved struct {
	Move
	Dest    string // relative destination path, empty when not kept
	Missing bool   // the source file was not in the checkout
}

// Relocate moves uploads into {dir}/{sub}.{ext}. The game directory is
// created when needed. Not transactional: files moved before a failure stay
// moved.
func (m *Manager) Relocate(sub string, moves []Move) ([]Moved, error) {
	var out []Moved
	for _, mv := range moves {
		if mv.Source == "" {
			continue
		}
		src := m.Path(mv.Source)
		res := Moved{Move: mv}
		if _, err := os.Stat(src); os.IsNotExist(err) {
			res.Missing = true
			out = append(out, res)
			continue
		}
		if mv.Keep {
			res.Dest = AssetPath(mv.Dir, sub, mv.Ext)
			if res.Dest == mv.Source {
				out = append(out, res)
				continue
			}
			if err := util.CopyFile(src, m.Path(res.Dest)); err != nil {
				return out, fmt.Errorf("copying %s to %s: %w", mv.Source, res.Dest, err)
			}
		}
		if err := os.Remove(src); err != nil {
			return out, fmt.Errorf("removing %s: %w", mv.Source, err)
		}
		out = append(out, res)
	}
	return out, nil
}
