package tab

// Format identifies the physical shape of an input file.
type Format string

const (
	FormatFixedWidth  Format = "fixed-width"
	FormatDelimited   Format = "delimited"
	FormatSpreadsheet Format = "spreadsheet"
	FormatArchive     Format = "archive"
)

// RouteDecision is the router's verdict for one input file. It is produced
// once per invocation, consumed immediately, and never mutated. NaturalKeys
// come from the schema contract, never from the router itself.
type RouteDecision struct {
	DatasetID string
	SchemaID  string
	Format    Format
	// Delimiter is the sniffed separator, set only for FormatDelimited.
	Delimiter   rune
	NaturalKeys []string
	// ParserKey names the registered dataset parser to invoke.
	ParserKey string
}
