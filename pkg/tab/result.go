package tab

// ParseResult is the terminal output of one parse invocation. Callers observe
// exactly one of: a complete ParseResult (possibly with non-empty Rejects),
// or a typed fatal error — never a partial success.
type ParseResult struct {
	// Data holds valid rows only, sorted by natural key, with content and
	// key hashes populated.
	Data TypedTable

	// Rejects holds every quarantined row from all validation stages.
	Rejects []Reject

	// Metrics is the structured outcome record handed to the observability
	// collaborator: counts, detected encoding/format, duration, dataset
	// statistics.
	Metrics map[string]any

	// Meta echoes the provenance supplied by the caller. It is attached to
	// the result rather than to individual rows and is excluded from row
	// content hashes.
	Meta Metadata
}
