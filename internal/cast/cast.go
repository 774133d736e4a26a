// Package cast converts all-string rows into typed values under a schema
// contract.
//
// The rules carried over from real-world exports:
//   - Multiple date formats, with a pivot for 2-digit years
//   - Currency symbols, thousands separators, accounting-style negatives
//   - Boolean vocabulary (yes/no, t/f, 1/0)
//   - Excel formula prefixes (="value") and stray quotes
//
// Decimals never touch binary floating point: values are parsed exactly and
// rounded half-up to the contract-declared precision, so hashes reproduce
// bit-for-bit across formats and platforms. A cell that cannot be cast is an
// explicit reject, never a silent null.
package cast

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/tabular/internal/contract"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// numericRegex validates numeric shape after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// DefaultDatePivotYears is the fallback 2-digit-year pivot window: parsed
// years more than this many years in the future are shifted to the previous
// century.
const DefaultDatePivotYears = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// Table casts every row of a normalized raw table. Rows that cast cleanly
// land in the typed table; each failing row produces exactly one reject
// (first failing cell wins) and is dropped. The typed table's columns follow
// the contract's declared order regardless of source order. pivotYears is
// the 2-digit-year window handed to date parsing; it is per-call so
// concurrent invocations with different settings never interfere.
func Table(t *tab.RawTable, c *contract.Contract, dataset string, pivotYears int) (*tab.TypedTable, []tab.Reject) {
	colIdx := make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		colIdx[name] = i
	}
	keyIdx := make([]int, len(c.NaturalKeys))
	for i, k := range c.NaturalKeys {
		if pos, ok := colIdx[k]; ok {
			keyIdx[i] = pos
		} else {
			keyIdx[i] = -1
		}
	}

	typed := &tab.TypedTable{Columns: make([]string, len(c.Columns))}
	for i, col := range c.Columns {
		typed.Columns[i] = col.Name
	}

	var rejects []tab.Reject
	for _, row := range t.Rows {
		values, rej := castRow(row, colIdx, c, pivotYears)
		if rej != nil {
			rej.Dataset = dataset
			rej.KeyValues = keyValues(row, keyIdx)
			rejects = append(rejects, *rej)
			continue
		}
		typed.Rows = append(typed.Rows, tab.TypedRow{Line: row.Line, Values: values})
	}

	return typed, rejects
}

func castRow(row tab.RawRow, colIdx map[string]int, c *contract.Contract, pivotYears int) ([]tab.Value, *tab.Reject) {
	values := make([]tab.Value, len(c.Columns))

	for i, col := range c.Columns {
		raw := ""
		if pos, ok := colIdx[col.Name]; ok && pos < len(row.Cells) {
			raw = CleanCell(row.Cells[pos])
		}

		if raw == "" {
			if !col.Nullable {
				return nil, &tab.Reject{
					Line:   row.Line,
					Column: col.Name,
					Reason: tab.ReasonNullNotAllowed,
				}
			}
			values[i] = tab.Value{Kind: col.Type, Valid: false, Prec: col.Precision}
			continue
		}

		v, ok := castCell(raw, col, pivotYears)
		if !ok {
			return nil, &tab.Reject{
				Line:     row.Line,
				Column:   col.Name,
				Reason:   tab.ReasonCastFailure,
				RawValue: raw,
			}
		}
		values[i] = v
	}

	return values, nil
}

func castCell(raw string, col contract.Column, pivotYears int) (tab.Value, bool) {
	switch col.Type {
	case tab.FieldText:
		return tab.Value{Kind: tab.FieldText, Valid: true, Text: raw}, true

	case tab.FieldEnum:
		// Domain membership was enforced pre-cast; here the value is only
		// rewritten to the declared spelling.
		for _, ev := range col.Enum {
			if strings.EqualFold(ev, raw) {
				return tab.Value{Kind: tab.FieldEnum, Valid: true, Text: ev}, true
			}
		}
		return tab.Value{}, false

	case tab.FieldNumeric:
		d, ok := ParseDecimal(raw)
		if !ok {
			return tab.Value{}, false
		}
		return tab.Value{
			Kind:  tab.FieldNumeric,
			Valid: true,
			Dec:   d.Round(col.Precision),
			Prec:  col.Precision,
		}, true

	case tab.FieldInt:
		d, ok := ParseDecimal(raw)
		if !ok || !d.IsInteger() {
			return tab.Value{}, false
		}
		return tab.Value{Kind: tab.FieldInt, Valid: true, Int: d.IntPart()}, true

	case tab.FieldDate:
		t, ok := ParseDate(raw, pivotYears)
		if !ok {
			return tab.Value{}, false
		}
		return tab.Value{Kind: tab.FieldDate, Valid: true, Date: t}, true

	case tab.FieldBool:
		b, ok := ParseBool(raw)
		if !ok {
			return tab.Value{}, false
		}
		return tab.Value{Kind: tab.FieldBool, Valid: true, Bool: b}, true

	default:
		return tab.Value{}, false
	}
}

func keyValues(row tab.RawRow, keyIdx []int) []string {
	out := make([]string, len(keyIdx))
	for i, pos := range keyIdx {
		if pos >= 0 && pos < len(row.Cells) {
			out[i] = CleanCell(row.Cells[pos])
		}
	}
	return out
}

// CleanCell removes common export artifacts from a cell value: surrounding
// whitespace, Excel formula prefixes (="..."), and stray surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// ParseDecimal parses an exact decimal after stripping currency symbols,
// thousands separators, and accounting-format parentheses.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	// Accounting negative: "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseDate tries 4-digit-year layouts first (unambiguous), then
// 2-digit-year layouts with the pivot adjustment.
func ParseDate(s string, pivotYears int) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + pivotYears
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseBool accepts the usual spellings: true/false, yes/no, t/f, y/n, 1/0.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}
