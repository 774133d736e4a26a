// Package metrics assembles the structured outcome record for one parse
// invocation: counts, detected encoding and format, duration, schema id,
// and dataset-specific statistics. The map is handed to an out-of-scope
// observability collaborator; the orchestrator uses the duration entry to
// enforce its own wall-clock budget.
package metrics

import (
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Builder accumulates metrics over the life of one invocation.
type Builder struct {
	start time.Time
	m     map[string]any
}

// NewBuilder starts the invocation clock and stamps identity fields. The
// invocation id is the same one the caller put in its logging context, so
// metrics and log entries correlate; an empty id mints a fresh one.
func NewBuilder(invocationID, dataset, schemaID string) *Builder {
	if invocationID == "" {
		invocationID = uuid.NewString()
	}
	return &Builder{
		start: time.Now(),
		m: map[string]any{
			"invocation_id": invocationID,
			"dataset":       dataset,
			"schema_id":     schemaID,
		},
	}
}

// Set records an arbitrary dataset-specific entry.
func (b *Builder) Set(key string, value any) *Builder {
	b.m[key] = value
	return b
}

// SetCounts records the join-invariant row counts.
func (b *Builder) SetCounts(total, valid, rejects int) *Builder {
	b.m["total_rows"] = total
	b.m["valid_rows"] = valid
	b.m["reject_rows"] = rejects
	return b
}

// RecordRanges captures min/max canonical values of every numeric and int
// column, so the observability side can flag drifting value ranges without
// re-reading the data.
func (b *Builder) RecordRanges(t *tab.TypedTable) *Builder {
	for i, name := range t.Columns {
		var lo, hi string
		seen := false
		for _, row := range t.Rows {
			v := row.Values[i]
			if !v.Valid || (v.Kind != tab.FieldNumeric && v.Kind != tab.FieldInt) {
				continue
			}
			c := v.Canonical()
			if !seen {
				lo, hi = c, c
				seen = true
				continue
			}
			if numericLess(c, lo) {
				lo = c
			}
			if numericLess(hi, c) {
				hi = c
			}
		}
		if seen {
			b.m["range_"+name] = [2]string{lo, hi}
		}
	}
	return b
}

// numericLess compares canonical numeric strings by value. Canonical
// decimals of one column share a precision, so sign plus digit-length plus
// lexicographic comparison is exact.
func numericLess(a, b string) bool {
	negA, negB := len(a) > 0 && a[0] == '-', len(b) > 0 && b[0] == '-'
	if negA != negB {
		return negA
	}
	if negA {
		return numericLess(b[1:], a[1:])
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Build finalizes the record with the parse duration.
func (b *Builder) Build() map[string]any {
	b.m["parse_duration_ms"] = time.Since(b.start).Milliseconds()
	return b.m
}
