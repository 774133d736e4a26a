package dataset

// pipeline.go runs the full parse for one routed file: decode, normalize
// headers, schema regression check, categorical validation, cast, business
// rules, uniqueness, canonical ordering and hashing, row-count bounds,
// metrics.
//
// Every row the decoder emits is accounted for exactly once: it ends up in
// the output table or in the rejects, never both, never neither. Fatal
// errors return no partial output.

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tabular/internal/canon"
	"github.com/JonMunkholm/tabular/internal/cast"
	"github.com/JonMunkholm/tabular/internal/check"
	"github.com/JonMunkholm/tabular/internal/contract"
	"github.com/JonMunkholm/tabular/internal/decode"
	"github.com/JonMunkholm/tabular/internal/metrics"
	"github.com/JonMunkholm/tabular/internal/normalize"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Options carries the per-invocation collaborators and knobs into Run.
type Options struct {
	// Logger receives the stage logs; nil falls back to slog.Default().
	Logger *slog.Logger

	// InvocationID correlates this parse's metrics record with its log
	// entries. Empty means the metrics builder mints one.
	InvocationID string

	// DatePivotYears is the 2-digit-year window for date casting; zero or
	// negative falls back to cast.DefaultDatePivotYears.
	DatePivotYears int
}

// Run parses routed content for one dataset and returns the complete result.
func Run(def Definition, route *tab.RouteDecision, content []byte, meta tab.Metadata, opts Options) (*tab.ParseResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pivot := opts.DatePivotYears
	if pivot <= 0 {
		pivot = cast.DefaultDatePivotYears
	}

	mb := metrics.NewBuilder(opts.InvocationID, def.Key, def.SchemaID)
	mb.Set("release_id", meta.ReleaseID)

	raw, format, enc, err := decodeContent(def, route.Format, route.Delimiter, content, meta, mb)
	if err != nil {
		return nil, err
	}
	mb.Set("format", string(format))
	mb.Set("encoding", string(enc))

	normalize.Headers(raw, def.Aliases)

	c, err := contracts.Load(def.SchemaID)
	if err != nil {
		return nil, fmt.Errorf("loading contract %s: %w", def.SchemaID, err)
	}
	if err := checkSchemaRegression(raw.Columns, c); err != nil {
		return nil, err
	}

	totalRows := len(raw.Rows)
	var rejects []tab.Reject

	raw, shortRejects := dropShortRows(raw, def.Key)
	rejects = append(rejects, shortRejects...)

	raw, catRejects := check.Categorical(raw, c, def.Key)
	rejects = append(rejects, catRejects...)

	typed, castRejects := cast.Table(raw, c, def.Key, pivot)
	rejects = append(rejects, castRejects...)

	typed, ruleRejects, softWarnings := applyRules(typed, &def)
	rejects = append(rejects, ruleRejects...)
	mb.Set("soft_range_warnings", softWarnings)

	typed, dupRejects, dupStats, err := check.Uniqueness(typed, c, def.DuplicateSeverity, def.Key)
	if err != nil {
		return nil, err
	}
	rejects = append(rejects, dupRejects...)
	mb.Set("duplicate_groups", dupStats.DuplicateGroups)
	mb.Set("duplicate_rows", dupStats.DuplicateRows)

	typed, err = canon.Finalize(typed, c)
	if err != nil {
		return nil, err
	}

	if def.RowBounds != nil {
		status := def.RowBounds.status(len(typed.Rows))
		mb.Set("row_count_status", status)
		if status == "fail" {
			return nil, &tab.RowCountError{
				Dataset:  def.Key,
				Observed: len(typed.Rows),
				FailLow:  def.RowBounds.FailLow,
				FailHigh: def.RowBounds.FailHigh,
			}
		}
	}

	mb.SetCounts(totalRows, len(typed.Rows), len(rejects))
	mb.RecordRanges(typed)

	logger.Info("parse complete",
		slog.String("dataset", def.Key),
		slog.String("schema_id", def.SchemaID),
		slog.Int("total_rows", totalRows),
		slog.Int("valid_rows", len(typed.Rows)),
		slog.Int("reject_rows", len(rejects)),
	)

	return &tab.ParseResult{
		Data:    *typed,
		Rejects: rejects,
		Metrics: mb.Build(),
		Meta:    meta,
	}, nil
}

// decodeContent dispatches on the routed format. Archives are unwrapped and
// the member's format re-detected, since the router only saw the container.
func decodeContent(def Definition, format tab.Format, delim rune, content []byte, meta tab.Metadata, mb *metrics.Builder) (*tab.RawTable, tab.Format, decode.Encoding, error) {
	switch format {
	case tab.FormatArchive:
		name, member, err := decode.ExtractMember(content, def.ArchiveMemberPattern)
		if err != nil {
			return nil, format, "", err
		}
		mb.Set("archive_member", name)
		if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			raw, err := decode.Spreadsheet(member)
			return raw, tab.FormatSpreadsheet, decode.EncodingUTF8, err
		}
		text, enc := decode.DecodeText(member)
		sample := text
		if len(sample) > decode.SniffLimit {
			sample = sample[:decode.SniffLimit]
		}
		switch tf, d := decode.SniffTextFormat(sample); tf {
		case decode.TextDelimited:
			raw, err := decode.Delimited(text, d)
			return raw, tab.FormatDelimited, enc, err
		case decode.TextFixedWidth:
			raw, fwEnc, err := decodeFixedWidth(def, member, meta)
			return raw, tab.FormatFixedWidth, fwEnc, err
		default:
			return nil, format, enc, fmt.Errorf("archive member %q: unrecognized text format", name)
		}

	case tab.FormatSpreadsheet:
		raw, err := decode.Spreadsheet(content)
		return raw, format, decode.EncodingUTF8, err

	case tab.FormatDelimited:
		text, enc := decode.DecodeText(content)
		raw, err := decode.Delimited(text, delim)
		return raw, format, enc, err

	case tab.FormatFixedWidth:
		raw, enc, err := decodeFixedWidth(def, content, meta)
		return raw, format, enc, err

	default:
		return nil, format, "", fmt.Errorf("unsupported format %q", format)
	}
}

func decodeFixedWidth(def Definition, content []byte, meta tab.Metadata) (*tab.RawTable, decode.Encoding, error) {
	l := layouts.Get(def.Key, meta.ProductYear, quarterNumber(meta.QuarterVintage))
	if l == nil {
		return nil, "", &tab.LayoutMismatchError{
			Dataset: def.Key,
			Detail: fmt.Sprintf("no layout published for %d %s",
				meta.ProductYear, meta.QuarterVintage),
		}
	}
	return decode.FixedWidth(content, l)
}

// quarterNumber extracts the quarter ordinal from vintage strings like "Q1"
// or "2024Q3". Zero means annual.
func quarterNumber(vintage string) int {
	i := strings.LastIndexByte(strings.ToUpper(vintage), 'Q')
	if i < 0 || i+1 >= len(vintage) {
		return 0
	}
	n, err := strconv.Atoi(vintage[i+1:])
	if err != nil || n < 1 || n > 4 {
		return 0
	}
	return n
}

// checkSchemaRegression verifies the decoded header against the contract:
// every required column present, no banned column present. One error reports
// every violation at once.
func checkSchemaRegression(columns []string, c *contract.Contract) error {
	present := make(map[string]bool, len(columns))
	for _, name := range columns {
		present[name] = true
	}

	var missing []string
	for _, col := range c.Columns {
		if col.Required && !present[col.Name] {
			missing = append(missing, col.Name)
		}
	}
	var banned []string
	for _, name := range c.BannedColumns {
		if present[name] {
			banned = append(banned, name)
		}
	}

	if len(missing) > 0 || len(banned) > 0 {
		return &tab.SchemaRegressionError{SchemaID: c.SchemaID, Missing: missing, Banned: banned}
	}
	return nil
}

// dropShortRows quarantines delimited rows carrying fewer cells than the
// header. Spreadsheet rows are padded upstream and fixed-width rows are
// always full, so this only ever fires for delimited content.
func dropShortRows(t *tab.RawTable, dataset string) (*tab.RawTable, []tab.Reject) {
	kept := &tab.RawTable{Columns: t.Columns}
	var rejects []tab.Reject
	for _, row := range t.Rows {
		if len(row.Cells) < len(t.Columns) {
			rejects = append(rejects, tab.Reject{
				Dataset:  dataset,
				Line:     row.Line,
				Reason:   tab.ReasonShortRow,
				RawValue: strings.Join(row.Cells, ","),
			})
			continue
		}
		kept.Rows = append(kept.Rows, row)
	}
	return kept, rejects
}
