// Package normalize canonicalizes decoded column headers against a
// dataset's alias map.
//
// Lookup is case-insensitive, whitespace-collapsed, and BOM/NBSP-stripped.
// Fixed-width input is usually a no-op here: its column names come straight
// from the layout and are already canonical.
package normalize

import (
	"strings"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

// CleanHeader reduces a raw header cell to its canonical lookup form:
// BOM/NBSP stripped, whitespace collapsed, lowercased, spaces joined with
// underscores. "Area  Code" and "area_code" normalize identically.
func CleanHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true // trims leading whitespace
	for _, r := range s {
		switch r {
		case '\uFEFF':
			continue
		case ' ', '\t', '\u00A0':
			if !lastSpace {
				b.WriteRune('_')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSuffix(strings.ToLower(b.String()), "_")
}

// Headers rewrites a table's column names to canonical form, applying the
// dataset alias map after cleaning. Alias keys must themselves be in cleaned
// form. The table is modified in place and returned.
func Headers(t *tab.RawTable, aliases map[string]string) *tab.RawTable {
	for i, col := range t.Columns {
		clean := CleanHeader(col)
		if canonical, ok := aliases[clean]; ok {
			clean = canonical
		}
		t.Columns[i] = clean
	}
	return t
}
