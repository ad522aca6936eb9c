package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Load reads a mapping.json file from disk. A missing file is an empty catalog.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes JSON bytes into a record list.
func Parse(data []byte) ([]Record, error) {
	if len(data) == 0 {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing catalog JSON: %w", err)
	}
	if records == nil {
		return []Record{}, nil
	}
	return records, nil
}

// GameImage is one entry of images.json.
type GameImage struct {
	Icon      string `json:"icon"`
	ShortName string `json:"short_name,omitempty"`
}

// LoadImages reads images.json, keyed by game name. A missing file yields
// an empty map.
func LoadImages(path string) (map[string]GameImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]GameImage{}, nil
		}
		return nil, fmt.Errorf("reading images: %w", err)
	}
	images := map[string]GameImage{}
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, fmt.Errorf("parsing images JSON: %w", err)
	}
	return images, nil
}

// LoadGames returns the sorted game names keyed in images.json. A missing
// file yields no games.
func LoadGames(path string) ([]string, error) {
	images, err := LoadImages(path)
	if err != nil {
		return nil, err
	}
	games := make([]string, 0, len(images))
	for name := range images {
		games = append(games, name)
	}
	sort.Strings(games)
	return games, nil
}
