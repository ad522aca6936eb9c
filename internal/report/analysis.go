// Package report renders the text posted to pull requests and Discord.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/submission"
)

// Analysis is what the analyzer learned about a pull request.
type Analysis struct {
	IsSong       bool
	Record       catalog.Record // record as it would be appended
	Validation   submission.Result
	NewGame      bool
	SimilarGame  string // empty unless a known game scored above the threshold
	SimilarScore float64
}

// NeedsChanging is the verdict shown to the submitter.
func (a Analysis) NeedsChanging() bool {
	return a.IsSong && a.Validation.NeedsChanging
}

// AnalysisComment renders the PR comment for an analysis.
func AnalysisComment(a Analysis) (string, error) {
	lines := []string{
		"Mornin'",
		"",
		"I've analyzed your pull request and ascertained the following information from it. This will help the verifiers handle your request faster:",
		"> Is Song Upload: " + yesNo(a.IsSong),
	}
	if a.IsSong {
		lines = append(lines,
			"> Has Binary File: "+yesNo(a.Record.Has(catalog.FieldBinary)),
			"> Has Preview: "+yesNo(a.Record.Has(catalog.FieldAudio)),
			"> Missing Mandatory Information: "+listOrNone(a.Validation.Missing),
			"> Headers which I don't understand: "+listOrNone(a.Validation.Unknown),
			"> Is new game: "+yesNo(a.NewGame),
		)
		if a.NewGame && a.SimilarGame != "" {
			lines = append(lines, fmt.Sprintf("> Detected as Similar to: %s (Similarity Score: %d%%)", a.SimilarGame, int(a.SimilarScore*100)))
		}
	}
	verdict := "No"
	if a.NeedsChanging() {
		verdict = "YES!!! (PLEASE ENSURE YOU FIX ANY ERRORS SO THIS SAYS NO BEFORE MERGING)"
	}
	lines = append(lines, "> Something needs changing: "+verdict, "")

	if a.IsSong {
		preview, err := prettyJSON(a.Record, "    ")
		if err != nil {
			return "", err
		}
		lines = append(lines, "Here's what the output will look like:", "```", preview, "```")
	}
	return strings.Join(lines, "\n"), nil
}

func prettyJSON(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding record preview: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
