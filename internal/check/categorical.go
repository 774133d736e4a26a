// Package check enforces the two row-set rules that split tables into valid
// and quarantined rows: categorical domain membership and natural-key
// uniqueness.
package check

import (
	"strings"

	"github.com/JonMunkholm/tabular/internal/cast"
	"github.com/JonMunkholm/tabular/internal/contract"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Categorical validates every schema-declared categorical column against its
// enum domain before the casting stage, so an out-of-domain value can never
// be silently nulled by a cast. Rows pass or land in rejects with an
// explicit reason code; the input table is not modified.
func Categorical(t *tab.RawTable, c *contract.Contract, dataset string) (*tab.RawTable, []tab.Reject) {
	cats := c.CategoricalColumns()
	if len(cats) == 0 {
		return t, nil
	}

	colIdx := make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		colIdx[name] = i
	}
	keyIdx := make([]int, 0, len(c.NaturalKeys))
	for _, k := range c.NaturalKeys {
		if pos, ok := colIdx[k]; ok {
			keyIdx = append(keyIdx, pos)
		}
	}

	valid := &tab.RawTable{Columns: t.Columns}
	var rejects []tab.Reject

rows:
	for _, row := range t.Rows {
		for _, name := range cats {
			pos, ok := colIdx[name]
			if !ok {
				continue
			}
			raw := ""
			if pos < len(row.Cells) {
				raw = cast.CleanCell(row.Cells[pos])
			}
			col, _ := c.Column(name)

			if raw == "" {
				if col.Nullable {
					continue
				}
				rejects = append(rejects, tab.Reject{
					Dataset:   dataset,
					Line:      row.Line,
					Column:    name,
					Reason:    tab.ReasonNullNotAllowed,
					KeyValues: rawKeyValues(row, keyIdx),
				})
				continue rows
			}

			if !inDomain(raw, col.Enum) {
				rejects = append(rejects, tab.Reject{
					Dataset:   dataset,
					Line:      row.Line,
					Column:    name,
					Reason:    tab.ReasonUnknownValue,
					RawValue:  raw,
					KeyValues: rawKeyValues(row, keyIdx),
				})
				continue rows
			}
		}
		valid.Rows = append(valid.Rows, row)
	}

	return valid, rejects
}

func inDomain(raw string, domain []string) bool {
	for _, v := range domain {
		if strings.EqualFold(v, raw) {
			return true
		}
	}
	return false
}

func rawKeyValues(row tab.RawRow, keyIdx []int) []string {
	out := make([]string, len(keyIdx))
	for i, pos := range keyIdx {
		if pos < len(row.Cells) {
			out[i] = cast.CleanCell(row.Cells[pos])
		}
	}
	return out
}
