package tab

// errors.go defines the closed taxonomy of fatal parse errors.
//
// Structural and contract violations abort the entire invocation with no
// partial output; each gets a typed error so callers can switch on the
// failure mode with errors.As. Row-level data-quality problems never appear
// here — they are Reject records.

import (
	"fmt"
	"strings"
)

// UnroutableInputError means the router could not determine the format or
// dataset for a file. The whole file is quarantined.
type UnroutableInputError struct {
	Filename string
	Detail   string
}

func (e *UnroutableInputError) Error() string {
	return fmt.Sprintf("unroutable input %q: %s", e.Filename, e.Detail)
}

// LayoutMismatchError means a fixed-width layout does not line up with the
// file content (or with its schema contract).
type LayoutMismatchError struct {
	Dataset string
	Version int
	Line    int
	Detail  string
}

func (e *LayoutMismatchError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("layout mismatch for %s v%d at line %d: %s", e.Dataset, e.Version, e.Line, e.Detail)
	}
	return fmt.Sprintf("layout mismatch for %s v%d: %s", e.Dataset, e.Version, e.Detail)
}

// SchemaRegressionError means the decoded column set violates the contract's
// required or banned columns.
type SchemaRegressionError struct {
	SchemaID string
	Missing  []string
	Banned   []string
}

func (e *SchemaRegressionError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Banned) > 0 {
		parts = append(parts, "banned columns present: "+strings.Join(e.Banned, ", "))
	}
	return fmt.Sprintf("schema regression for %s: %s", e.SchemaID, strings.Join(parts, "; "))
}

// DuplicateKeyError means a BLOCK-severity dataset contained repeated natural
// keys. It carries the offending key tuples; no output is returned.
type DuplicateKeyError struct {
	Dataset string
	Keys    [][]string
}

func (e *DuplicateKeyError) Error() string {
	samples := make([]string, 0, 3)
	for i, k := range e.Keys {
		if i == 3 {
			break
		}
		samples = append(samples, "("+strings.Join(k, ", ")+")")
	}
	return fmt.Sprintf("duplicate natural keys in %s: %d key(s), e.g. %s",
		e.Dataset, len(e.Keys), strings.Join(samples, " "))
}

// RowCountError means the row count fell in the dataset's hard-fail band of
// its expected-row-count bounds.
type RowCountError struct {
	Dataset  string
	Observed int
	FailLow  int
	FailHigh int
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("row count %d for %s outside hard bounds [%d, %d]",
		e.Observed, e.Dataset, e.FailLow, e.FailHigh)
}
