package tab

// Severity is the per-rule policy deciding whether a violation aborts the
// whole invocation, quarantines the offending rows, or is merely observed.
// It is a closed set: checkers switch over it exhaustively and treat an
// unknown value as a programming error.
type Severity int

const (
	// SeverityBlock aborts the invocation with a typed fatal error.
	SeverityBlock Severity = iota
	// SeverityWarn quarantines offending rows and continues.
	SeverityWarn
	// SeverityInfo records the observation in metrics and keeps all rows.
	SeverityInfo
)

// String returns the policy name as it appears in metrics.
func (s Severity) String() string {
	switch s {
	case SeverityBlock:
		return "block"
	case SeverityWarn:
		return "warn"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}
