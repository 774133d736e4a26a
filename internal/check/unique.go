package check

// unique.go enforces natural-key uniqueness under a per-dataset severity
// policy.
//
// BLOCK aborts the invocation with the offending key tuples and returns no
// output: reference tables requiring exactly one row per key must never
// half-load. WARN quarantines all but the first-seen row of each duplicate
// group and continues; crosswalk-style datasets legitimately overlap during
// transitions. INFO keeps everything and only reports the count.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/tabular/internal/contract"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// keySeparator joins canonical key parts. It cannot occur inside a canonical
// value, so composed keys never collide.
const keySeparator = "\x1f"

// UniquenessResult reports what the checker saw, for metrics.
type UniquenessResult struct {
	DuplicateGroups int
	DuplicateRows   int
}

// Uniqueness splits a typed table into unique rows and duplicates according
// to severity. Under BLOCK the returned error is a *tab.DuplicateKeyError
// and both outputs are nil.
func Uniqueness(t *tab.TypedTable, c *contract.Contract, sev tab.Severity, dataset string) (*tab.TypedTable, []tab.Reject, UniquenessResult, error) {
	keyIdx := make([]int, len(c.NaturalKeys))
	for i, k := range c.NaturalKeys {
		keyIdx[i] = t.ColumnIndex(k)
		if keyIdx[i] < 0 {
			return nil, nil, UniquenessResult{}, fmt.Errorf("natural key column %q missing from typed table", k)
		}
	}

	seen := make(map[string]int, len(t.Rows)) // key -> occurrences so far
	var res UniquenessResult

	keyOf := func(row tab.TypedRow) (string, []string) {
		parts := make([]string, len(keyIdx))
		for i, pos := range keyIdx {
			parts[i] = row.Values[pos].Canonical()
		}
		return strings.Join(parts, keySeparator), parts
	}

	switch sev {
	case tab.SeverityBlock:
		var offending [][]string
		dupSeen := make(map[string]bool)
		for _, row := range t.Rows {
			key, parts := keyOf(row)
			seen[key]++
			if seen[key] == 2 && !dupSeen[key] {
				dupSeen[key] = true
				offending = append(offending, parts)
			}
		}
		if len(offending) > 0 {
			return nil, nil, UniquenessResult{}, &tab.DuplicateKeyError{Dataset: dataset, Keys: offending}
		}
		return t, nil, res, nil

	case tab.SeverityWarn:
		unique := &tab.TypedTable{Columns: t.Columns}
		var dups []tab.Reject
		groupCounted := make(map[string]bool)
		for _, row := range t.Rows {
			key, parts := keyOf(row)
			seen[key]++
			if seen[key] == 1 {
				unique.Rows = append(unique.Rows, row)
				continue
			}
			// First-seen row is retained; later occurrences quarantine.
			if !groupCounted[key] {
				groupCounted[key] = true
				res.DuplicateGroups++
			}
			res.DuplicateRows++
			dups = append(dups, tab.Reject{
				Dataset:   dataset,
				Line:      row.Line,
				Reason:    tab.ReasonNaturalKeyDuplicate,
				KeyValues: parts,
			})
		}
		return unique, dups, res, nil

	case tab.SeverityInfo:
		for _, row := range t.Rows {
			key, _ := keyOf(row)
			seen[key]++
			if seen[key] == 2 {
				res.DuplicateGroups++
			}
			if seen[key] > 1 {
				res.DuplicateRows++
			}
		}
		return t, nil, res, nil

	default:
		panic(fmt.Sprintf("unknown uniqueness severity %d", sev))
	}
}
