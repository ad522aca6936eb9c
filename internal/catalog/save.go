package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/renameio/v2"
)

// Marshal encodes a record list as a 2-space indented JSON array.
func Marshal(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Save writes the record list to path, replacing the file atomically.
func Save(path string, records []Record) error {
	data, err := Marshal(records)
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0644)
}

// Append adds a record to the end of the list. Records are never merged:
// a repeated Game and Song becomes a new revision.
func Append(records []Record, r Record) []Record {
	return append(records, r)
}

// Revisions counts the records that share the given game and song.
func Revisions(records []Record, game, song any) int {
	n := 0
	for _, r := range records {
		if r.Same(game, song) {
			n++
		}
	}
	return n
}
