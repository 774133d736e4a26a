package cast

import (
	"testing"
	"time"

	"github.com/JonMunkholm/tabular/internal/contract"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// ----------------------------------------------------------------------------
// ParseDecimal Tests
// ----------------------------------------------------------------------------

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		// Valid: Basic integers
		{
			name:      "positive integer",
			input:     "123",
			wantValid: true,
			wantValue: "123",
		},
		{
			name:      "zero",
			input:     "0",
			wantValid: true,
			wantValue: "0",
		},
		{
			name:      "negative integer",
			input:     "-456",
			wantValid: true,
			wantValue: "-456",
		},

		// Valid: Decimals
		{
			name:      "decimal number",
			input:     "123.45",
			wantValid: true,
			wantValue: "123.45",
		},
		{
			name:      "leading decimal point",
			input:     ".99",
			wantValid: true,
			wantValue: "0.99",
		},
		{
			name:      "trailing decimal point",
			input:     "99.",
			wantValid: true,
			wantValue: "99",
		},

		// Valid: Currency symbols
		{
			name:      "dollar sign",
			input:     "$1,234.56",
			wantValid: true,
			wantValue: "1234.56",
		},
		{
			name:      "euro sign",
			input:     "€1234.56",
			wantValid: true,
			wantValue: "1234.56",
		},
		{
			name:      "pound sign",
			input:     "£1234.56",
			wantValid: true,
			wantValue: "1234.56",
		},

		// Valid: Thousands separators
		{
			name:      "thousands separator",
			input:     "1,234,567.89",
			wantValid: true,
			wantValue: "1234567.89",
		},

		// Valid: Accounting format (parentheses for negative)
		{
			name:      "accounting negative parentheses",
			input:     "(123.45)",
			wantValid: true,
			wantValue: "-123.45",
		},
		{
			name:      "accounting negative with currency",
			input:     "($1,234.56)",
			wantValid: true,
			wantValue: "-1234.56",
		},
		{
			name:      "accounting negative with spaces",
			input:     "( 999.99 )",
			wantValid: true,
			wantValue: "-999.99",
		},

		// Invalid inputs
		{
			name:      "empty string",
			input:     "",
			wantValid: false,
		},
		{
			name:      "plain text",
			input:     "abc",
			wantValid: false,
		},
		{
			name:      "scientific notation not supported",
			input:     "1.5e10",
			wantValid: false,
		},
		{
			name:      "double decimal point",
			input:     "1.2.3",
			wantValid: false,
		},
		{
			name:      "bare parentheses",
			input:     "()",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseDecimal(tt.input)
			if ok != tt.wantValid {
				t.Fatalf("ParseDecimal(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && d.String() != tt.wantValue {
				t.Errorf("ParseDecimal(%q) = %s, want %s", tt.input, d.String(), tt.wantValue)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantDate  string // yyyy-mm-dd
	}{
		// Valid: ISO and unambiguous 4-digit-year formats
		{
			name:      "iso date",
			input:     "2024-01-15",
			wantValid: true,
			wantDate:  "2024-01-15",
		},
		{
			name:      "slash date",
			input:     "1/15/2024",
			wantValid: true,
			wantDate:  "2024-01-15",
		},
		{
			name:      "compact date",
			input:     "20240115",
			wantValid: true,
			wantDate:  "2024-01-15",
		},
		{
			name:      "month name",
			input:     "Jan 15, 2024",
			wantValid: true,
			wantDate:  "2024-01-15",
		},

		// Valid: 2-digit years with pivot
		{
			name:      "two digit year recent",
			input:     "1/15/24",
			wantValid: true,
			wantDate:  "2024-01-15",
		},
		{
			name:      "two digit year pivots to previous century",
			input:     "6/30/99",
			wantValid: true,
			wantDate:  "1999-06-30",
		},

		// Invalid inputs
		{
			name:      "empty string",
			input:     "",
			wantValid: false,
		},
		{
			name:      "not a date",
			input:     "quarterly",
			wantValid: false,
		},
		{
			name:      "month out of range",
			input:     "2024-13-01",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input, DefaultDatePivotYears)
			if ok != tt.wantValid {
				t.Fatalf("ParseDate(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && got.Format("2006-01-02") != tt.wantDate {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.wantDate)
			}
		})
	}
}

func TestParseDatePivotIsPerCall(t *testing.T) {
	nextYear := time.Now().Year() + 1
	input := time.Date(nextYear, 3, 1, 0, 0, 0, 0, time.UTC).Format("1/2/06")

	// With a zero-year window the date is already "in the future" and shifts
	// back a century; with the default window it stays put. The two calls
	// must not influence each other.
	shifted, ok := ParseDate(input, 0)
	if !ok {
		t.Fatalf("ParseDate(%q, 0) failed", input)
	}
	if shifted.Year() != nextYear-100 {
		t.Errorf("ParseDate(%q, 0) year = %d, want pivot to %d", input, shifted.Year(), nextYear-100)
	}

	kept, ok := ParseDate(input, DefaultDatePivotYears)
	if !ok {
		t.Fatalf("ParseDate(%q, %d) failed", input, DefaultDatePivotYears)
	}
	if kept.Year() != nextYear {
		t.Errorf("ParseDate(%q, %d) year = %d, want %d", input, DefaultDatePivotYears, kept.Year(), nextYear)
	}
}

// ----------------------------------------------------------------------------
// ParseBool Tests
// ----------------------------------------------------------------------------

func TestParseBool(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      bool
	}{
		{name: "true word", input: "true", wantValid: true, want: true},
		{name: "yes", input: "Yes", wantValid: true, want: true},
		{name: "single t", input: "T", wantValid: true, want: true},
		{name: "one", input: "1", wantValid: true, want: true},
		{name: "false word", input: "FALSE", wantValid: true, want: false},
		{name: "no", input: "no", wantValid: true, want: false},
		{name: "single n", input: "n", wantValid: true, want: false},
		{name: "zero", input: "0", wantValid: true, want: false},
		{name: "empty", input: "", wantValid: false},
		{name: "maybe", input: "maybe", wantValid: false},
		{name: "numeric two", input: "2", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBool(tt.input)
			if ok != tt.wantValid {
				t.Fatalf("ParseBool(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain value", input: "hello", want: "hello"},
		{name: "surrounding whitespace", input: "  hello  ", want: "hello"},
		{name: "excel formula prefix", input: `="00123"`, want: "00123"},
		{name: "bare equals prefix", input: "=123", want: "123"},
		{name: "surrounding quotes", input: `"quoted"`, want: "quoted"},
		{name: "single quotes", input: "'quoted'", want: "quoted"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Table Tests
// ----------------------------------------------------------------------------

func testContract(t *testing.T) *contract.Contract {
	t.Helper()
	c, err := contract.Decode([]byte(`
schema_id = "cast_test.v1"
version = 1
natural_keys = ["id"]
column_order = ["id", "tier", "amount", "count", "seen_on"]
hash_exclusions = []
banned_columns = []

[[columns]]
name = "id"
type = "text"
required = true

[[columns]]
name = "tier"
type = "enum"
required = true
enum = ["individual", "family"]

[[columns]]
name = "amount"
type = "numeric"
required = true
precision = 2

[[columns]]
name = "count"
type = "int"
nullable = true

[[columns]]
name = "seen_on"
type = "date"
nullable = true
`))
	if err != nil {
		t.Fatalf("decoding test contract: %v", err)
	}
	return c
}

func TestTableCastsCleanRows(t *testing.T) {
	c := testContract(t)
	raw := &tab.RawTable{
		// Source column order differs from contract order on purpose.
		Columns: []string{"amount", "id", "tier", "count", "seen_on"},
		Rows: []tab.RawRow{
			{Line: 2, Cells: []string{"$1,234.565", "A1", "Individual", "12", "2024-01-15"}},
			{Line: 3, Cells: []string{"10", "A2", "family", "", ""}},
		},
	}

	typed, rejects := Table(raw, c, "cast_test", DefaultDatePivotYears)
	if len(rejects) != 0 {
		t.Fatalf("rejects = %v, want none", rejects)
	}
	if len(typed.Rows) != 2 {
		t.Fatalf("typed rows = %d, want 2", len(typed.Rows))
	}

	// Output follows contract order, not source order.
	wantCols := []string{"id", "tier", "amount", "count", "seen_on"}
	for i, name := range wantCols {
		if typed.Columns[i] != name {
			t.Errorf("column[%d] = %q, want %q", i, typed.Columns[i], name)
		}
	}

	row := typed.Rows[0]
	if got := row.Values[1].Text; got != "individual" {
		t.Errorf("enum rewritten to %q, want declared spelling %q", got, "individual")
	}
	if got := row.Values[2].Canonical(); got != "1234.57" {
		t.Errorf("amount canonical = %q, want half-up rounding to %q", got, "1234.57")
	}
	if got := row.Values[4].Canonical(); got != "2024-01-15" {
		t.Errorf("date canonical = %q, want %q", got, "2024-01-15")
	}

	// Nullable empties carry the null marker, not a zero value.
	if typed.Rows[1].Values[3].Valid {
		t.Error("empty nullable int should be invalid (null)")
	}
}

func TestTableRejectsCarryContext(t *testing.T) {
	c := testContract(t)
	raw := &tab.RawTable{
		Columns: []string{"id", "tier", "amount", "count", "seen_on"},
		Rows: []tab.RawRow{
			{Line: 2, Cells: []string{"A1", "individual", "not-a-number", "1", ""}},
			{Line: 3, Cells: []string{"A2", "family", "", "1", ""}},
			{Line: 4, Cells: []string{"A3", "individual", "5.00", "2.5", ""}},
		},
	}

	typed, rejects := Table(raw, c, "cast_test", DefaultDatePivotYears)
	if len(typed.Rows) != 0 {
		t.Fatalf("typed rows = %d, want 0", len(typed.Rows))
	}
	if len(rejects) != 3 {
		t.Fatalf("rejects = %d, want 3", len(rejects))
	}

	tests := []struct {
		idx        int
		wantLine   int
		wantColumn string
		wantReason tab.ReasonCode
		wantKey    string
	}{
		{0, 2, "amount", tab.ReasonCastFailure, "A1"},
		{1, 3, "amount", tab.ReasonNullNotAllowed, "A2"},
		{2, 4, "count", tab.ReasonCastFailure, "A3"},
	}
	for _, tt := range tests {
		r := rejects[tt.idx]
		if r.Line != tt.wantLine || r.Column != tt.wantColumn || r.Reason != tt.wantReason {
			t.Errorf("reject[%d] = {line %d, col %q, reason %s}, want {line %d, col %q, reason %s}",
				tt.idx, r.Line, r.Column, r.Reason, tt.wantLine, tt.wantColumn, tt.wantReason)
		}
		if len(r.KeyValues) != 1 || r.KeyValues[0] != tt.wantKey {
			t.Errorf("reject[%d] key values = %v, want [%s]", tt.idx, r.KeyValues, tt.wantKey)
		}
		if r.Dataset != "cast_test" {
			t.Errorf("reject[%d] dataset = %q, want %q", tt.idx, r.Dataset, "cast_test")
		}
	}
}
