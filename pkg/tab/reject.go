package tab

// reject.go defines the quarantine side of every parse invocation.
//
// A Reject is ordinary data, never an error: row-level data-quality problems
// are isolated here so the rest of the file can still produce output. The
// join invariant holds for every invocation:
//
//	len(ParseResult.Data.Rows) + len(ParseResult.Rejects) == rows considered
//
// Reason codes are machine-readable and stable; downstream tooling keys off
// them, so renaming one is a breaking change.

// ReasonCode identifies why a row was quarantined.
type ReasonCode string

const (
	// ReasonCastFailure: a cell could not be cast to its declared type.
	ReasonCastFailure ReasonCode = "CAST_FAILURE"

	// ReasonUnknownValue: a categorical cell held a value outside the
	// schema-declared enum domain.
	ReasonUnknownValue ReasonCode = "UNKNOWN_VALUE"

	// ReasonNullNotAllowed: a non-nullable cell was empty.
	ReasonNullNotAllowed ReasonCode = "NULL_NOT_ALLOWED"

	// ReasonNaturalKeyDuplicate: under WARN severity, the row repeated a
	// natural key already seen earlier in the file.
	ReasonNaturalKeyDuplicate ReasonCode = "NATURAL_KEY_DUPLICATE"

	// ReasonOutOfRange: a numeric cell fell outside the dataset's hard
	// guardrail band.
	ReasonOutOfRange ReasonCode = "OUT_OF_RANGE"

	// ReasonPatternMismatch: a cell failed the dataset's format pattern
	// (e.g. a fixed-width key that must be exactly five digits).
	ReasonPatternMismatch ReasonCode = "PATTERN_MISMATCH"

	// ReasonShortRow: a delimited row carried fewer cells than the header.
	ReasonShortRow ReasonCode = "SHORT_ROW"
)

// Reject records one quarantined row. RawValue preserves the offending input
// verbatim so nothing is lost between parse and triage.
type Reject struct {
	Dataset   string
	Line      int
	Column    string
	Reason    ReasonCode
	RawValue  string
	KeyValues []string
}
