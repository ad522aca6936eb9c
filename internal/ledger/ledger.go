// Package ledger records which pull requests a batch run has appended, so
// a rerun after a failure does not append them twice.
package ledger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// DefaultPath is the ledger location relative to the repository root.
const DefaultPath = ".github/batch-ledger.jsonl"

// ErrLocked is returned by Lock when another run holds the ledger.
var ErrLocked = errors.New("ledger is locked by another batch run")

// Entry records one appended pull request.
type Entry struct {
	PR        int       `json:"pr"`
	Run       string    `json:"run"`
	Game      string    `json:"game,omitempty"`
	Song      string    `json:"song,omitempty"`
	SubPath   string    `json:"sub_path,omitempty"`
	Skipped   string    `json:"skipped,omitempty"` // reason, when nothing was appended
	Timestamp time.Time `json:"timestamp"`
}

// Ledger is a JSONL append-only log.
type Ledger struct {
	path string
	run  string
	lock *flock.Flock
	now  func() time.Time
}

// Open opens (or creates the directory for) the ledger at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return &Ledger{
		path: path,
		run:  uuid.NewString(),
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}, nil
}

// Path returns the ledger file path.
func (l *Ledger) Path() string { return l.path }

// Run identifies the entries this Ledger value appends.
func (l *Ledger) Run() string { return l.run }

// Lock takes an exclusive lock on the ledger for the length of a run.
func (l *Ledger) Lock() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock taken by Lock.
func (l *Ledger) Unlock() error {
	return l.lock.Unlock()
}

// Append adds an entry, stamping its run and time.
func (l *Ledger) Append(e Entry) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	e.Run = l.run
	e.Timestamp = l.now().UTC()
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(data))
	return err
}

// Contains reports whether pr has already been recorded.
func (l *Ledger) Contains(pr int) (bool, error) {
	entries, err := l.Entries()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.PR == pr {
			return true, nil
		}
	}
	return false, nil
}

// Entries returns all ledger entries. Malformed lines are skipped.
func (l *Ledger) Entries() ([]Entry, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}
