package dataset

// rules.go holds the per-dataset business-rule guardrails that run after
// casting: key format patterns, numeric range bands, and expected row
// counts.
//
// Range rules have two bands. The hard band quarantines the row; the soft
// band only increments a metrics counter, because a value drifting toward
// the edge of plausibility is worth a look but not worth losing the row.

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

// PatternRule requires a column's canonical value to match a format pattern
// (e.g. fixed-width area codes that must be exactly five digits).
type PatternRule struct {
	Column  string
	Pattern *regexp.Regexp
}

// RangeRule bounds a numeric or integer column. Nil limits are open ends.
type RangeRule struct {
	Column  string
	SoftMin *decimal.Decimal
	SoftMax *decimal.Decimal
	HardMin *decimal.Decimal
	HardMax *decimal.Decimal
}

// RowBounds is the expected-row-count envelope. Counts inside
// [WarnLow, WarnHigh] are normal; outside [FailLow, FailHigh] the parse
// fails with a RowCountError; between the two, a metrics flag is raised.
type RowBounds struct {
	FailLow  int
	WarnLow  int
	WarnHigh int
	FailHigh int
}

// rowCountStatus grades an observed count against the bounds.
func (rb *RowBounds) status(observed int) string {
	switch {
	case observed < rb.FailLow || observed > rb.FailHigh:
		return "fail"
	case observed < rb.WarnLow || observed > rb.WarnHigh:
		return "warn"
	default:
		return "ok"
	}
}

// applyRules splits a typed table into rows passing all hard rules and
// quarantined rows, and counts soft-band warnings for metrics.
func applyRules(t *tab.TypedTable, def *Definition) (*tab.TypedTable, []tab.Reject, int) {
	if len(def.PatternRules) == 0 && len(def.RangeRules) == 0 {
		return t, nil, 0
	}

	type patternCheck struct {
		rule PatternRule
		idx  int
	}
	type rangeCheck struct {
		rule RangeRule
		idx  int
	}
	var patterns []patternCheck
	for _, r := range def.PatternRules {
		if idx := t.ColumnIndex(r.Column); idx >= 0 {
			patterns = append(patterns, patternCheck{r, idx})
		}
	}
	var ranges []rangeCheck
	for _, r := range def.RangeRules {
		if idx := t.ColumnIndex(r.Column); idx >= 0 {
			ranges = append(ranges, rangeCheck{r, idx})
		}
	}

	kept := &tab.TypedTable{Columns: t.Columns}
	var rejects []tab.Reject
	softWarnings := 0

rows:
	for _, row := range t.Rows {
		for _, pc := range patterns {
			v := row.Values[pc.idx]
			if !v.Valid {
				continue
			}
			if !pc.rule.Pattern.MatchString(v.Canonical()) {
				rejects = append(rejects, tab.Reject{
					Dataset:  def.Key,
					Line:     row.Line,
					Column:   pc.rule.Column,
					Reason:   tab.ReasonPatternMismatch,
					RawValue: v.Canonical(),
				})
				continue rows
			}
		}

		for _, rc := range ranges {
			v := row.Values[rc.idx]
			d, ok := decimalOf(v)
			if !ok {
				continue
			}
			if outside(d, rc.rule.HardMin, rc.rule.HardMax) {
				rejects = append(rejects, tab.Reject{
					Dataset:  def.Key,
					Line:     row.Line,
					Column:   rc.rule.Column,
					Reason:   tab.ReasonOutOfRange,
					RawValue: v.Canonical(),
				})
				continue rows
			}
			if outside(d, rc.rule.SoftMin, rc.rule.SoftMax) {
				softWarnings++
			}
		}

		kept.Rows = append(kept.Rows, row)
	}

	return kept, rejects, softWarnings
}

func decimalOf(v tab.Value) (decimal.Decimal, bool) {
	if !v.Valid {
		return decimal.Decimal{}, false
	}
	switch v.Kind {
	case tab.FieldNumeric:
		return v.Dec, true
	case tab.FieldInt:
		return decimal.NewFromInt(v.Int), true
	default:
		return decimal.Decimal{}, false
	}
}

func outside(d decimal.Decimal, min, max *decimal.Decimal) bool {
	if min != nil && d.LessThan(*min) {
		return true
	}
	if max != nil && d.GreaterThan(*max) {
		return true
	}
	return false
}

// dec is a literal helper for rule tables.
func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
