package decode

// delimited.go decodes separator-delimited text.
//
// The separator comes from the router's sniff (bounded sample). Exports from
// reporting tools sometimes re-embed the header row mid-file; those repeats
// are stripped here so they never reach validation as data rows.

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Delimited decodes text with a known separator into a RawTable.
// The first non-empty record is the header; its cells are scrubbed of BOM
// and non-breaking spaces before anything else sees them.
func Delimited(text string, sep rune) (*tab.RawTable, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table := &tab.RawTable{}
	var headerKey []string

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading delimited content: %w", err)
		}
		line, _ := r.FieldPos(0)

		if isEmptyRecord(record) {
			continue
		}

		if table.Columns == nil {
			cols := make([]string, len(record))
			for i, c := range record {
				cols[i] = strings.TrimSpace(scrubCell(c))
			}
			table.Columns = cols
			headerKey = foldCells(cols)
			continue
		}

		// Strip re-embedded header rows.
		if matchesHeader(record, headerKey) {
			continue
		}

		table.Rows = append(table.Rows, tab.RawRow{Line: line, Cells: record})
	}

	if table.Columns == nil {
		return nil, fmt.Errorf("delimited content has no header row")
	}
	return table, nil
}

func isEmptyRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func foldCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ToLower(strings.TrimSpace(scrubCell(c)))
	}
	return out
}

func matchesHeader(record, headerKey []string) bool {
	if len(record) != len(headerKey) {
		return false
	}
	folded := foldCells(record)
	for i := range folded {
		if folded[i] != headerKey[i] {
			return false
		}
	}
	return true
}
