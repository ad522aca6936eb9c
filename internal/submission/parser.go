// Package submission turns a pull request description and its changed files
// into a catalog record.
package submission

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theballaam96/candyctl/internal/catalog"
)

// Sentinel must be the first line of a song submission.
const Sentinel = "IS SONG - DO NOT DELETE THIS LINE"

var (
	numericFields = []string{catalog.FieldTracks, catalog.FieldDuration}
	listFields    = []string{catalog.FieldTags, catalog.FieldCategories}
)

// Parse reads a pull request body. It returns ok=false when the body does
// not start with the sentinel line, which means the PR is not a song upload.
// Only trailing whitespace after the sentinel is tolerated.
//
// Keys keep the order in which they first appear; a repeated key overwrites
// the earlier value.
func Parse(body string) (catalog.Record, bool) {
	lines := strings.Split(body, "\n")
	if strings.TrimRight(lines[0], " \t\r") != Sentinel {
		return catalog.Record{}, false
	}

	fields := catalog.NewRecord()
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields.Set(key, strings.TrimSpace(value))
	}

	for _, k := range numericFields {
		if s := fields.String(k); s != "" {
			if n, ok := parseNumber(s); ok {
				fields.Set(k, n)
			}
		}
	}
	for _, k := range listFields {
		if v, ok := fields.Get(k); ok {
			if s, isText := v.(string); isText {
				fields.Set(k, splitList(s))
			}
		}
	}
	return fields, true
}

// parseNumber accepts integers, and decimals when the text has a point.
func parseNumber(s string) (any, bool) {
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return n, true
}

// splitList never returns nil, so an empty list is stored as [].
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Format renders fields as a PR body that Parse reads back to the same
// fields.
func Format(fields catalog.Record) string {
	var b strings.Builder
	b.WriteString(Sentinel)
	b.WriteString("\r\n")
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		fmt.Fprintf(&b, "%s: %s\r\n", k, FormatValue(v))
	}
	return b.String()
}

// FormatValue renders a single field value the way a submitter would type it.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = FormatValue(e)
		}
		return strings.Join(parts, ", ")
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}
