package canon

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/tabular/internal/contract"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

func canonContract(t *testing.T) *contract.Contract {
	t.Helper()
	c, err := contract.Decode([]byte(`
schema_id = "canon_test.v1"
version = 1
natural_keys = ["id"]
column_order = ["id", "amount", "note", "load_batch"]
hash_exclusions = ["load_batch"]

[[columns]]
name = "id"
type = "text"
required = true

[[columns]]
name = "amount"
type = "numeric"
precision = 2

[[columns]]
name = "note"
type = "text"
nullable = true

[[columns]]
name = "load_batch"
type = "text"
nullable = true
`))
	if err != nil {
		t.Fatalf("decoding test contract: %v", err)
	}
	return c
}

func row(line int, id, amount, note, batch string) tab.TypedRow {
	values := []tab.Value{
		{Kind: tab.FieldText, Valid: true, Text: id},
		{Kind: tab.FieldNumeric, Valid: true, Dec: decimal.RequireFromString(amount), Prec: 2},
		{Kind: tab.FieldText, Valid: note != "", Text: note},
		{Kind: tab.FieldText, Valid: batch != "", Text: batch},
	}
	return tab.TypedRow{Line: line, Values: values}
}

// ----------------------------------------------------------------------------
// Ordering Tests
// ----------------------------------------------------------------------------

func TestFinalizeSortsByNaturalKey(t *testing.T) {
	c := canonContract(t)
	table := &tab.TypedTable{
		Columns: []string{"id", "amount", "note", "load_batch"},
		Rows: []tab.TypedRow{
			row(2, "C", "1.00", "", ""),
			row(3, "A", "2.00", "", ""),
			row(4, "B", "3.00", "", ""),
		},
	}

	out, err := Finalize(table, c)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	want := []string{"A", "B", "C"}
	for i, id := range want {
		if out.Rows[i].Values[0].Text != id {
			t.Errorf("row[%d] id = %q, want %q", i, out.Rows[i].Values[0].Text, id)
		}
	}
}

// ----------------------------------------------------------------------------
// Hash Tests
// ----------------------------------------------------------------------------

func TestFinalizeHashesAreDeterministic(t *testing.T) {
	c := canonContract(t)

	build := func(order []int) *tab.TypedTable {
		rows := []tab.TypedRow{
			row(2, "A", "1.50", "first", ""),
			row(3, "B", "2.50", "second", ""),
		}
		table := &tab.TypedTable{Columns: []string{"id", "amount", "note", "load_batch"}}
		for _, i := range order {
			table.Rows = append(table.Rows, rows[i])
		}
		return table
	}

	// Same logical rows arriving in different source order, as when the same
	// release ships fixed-width one quarter and delimited the next.
	first, err := Finalize(build([]int{0, 1}), c)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	second, err := Finalize(build([]int{1, 0}), c)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	for i := range first.Rows {
		if first.Rows[i].ContentHash != second.Rows[i].ContentHash {
			t.Errorf("row[%d] content hash differs across source orders", i)
		}
		if first.Rows[i].KeyHash != second.Rows[i].KeyHash {
			t.Errorf("row[%d] key hash differs across source orders", i)
		}
	}
	if first.Rows[0].ContentHash == first.Rows[1].ContentHash {
		t.Error("different rows must not share a content hash")
	}
}

func TestFinalizeExcludesProvenanceFromContentHash(t *testing.T) {
	c := canonContract(t)

	with := &tab.TypedTable{
		Columns: []string{"id", "amount", "note", "load_batch"},
		Rows:    []tab.TypedRow{row(2, "A", "1.00", "x", "batch-77")},
	}
	without := &tab.TypedTable{
		Columns: []string{"id", "amount", "note", "load_batch"},
		Rows:    []tab.TypedRow{row(2, "A", "1.00", "x", "batch-78")},
	}

	a, err := Finalize(with, c)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	b, err := Finalize(without, c)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if a.Rows[0].ContentHash != b.Rows[0].ContentHash {
		t.Error("hash-excluded column changed the content hash")
	}
}

func TestFinalizeDistinguishesNullFromEmpty(t *testing.T) {
	c := canonContract(t)

	nullNote := &tab.TypedTable{
		Columns: []string{"id", "amount", "note", "load_batch"},
		Rows: []tab.TypedRow{{Line: 2, Values: []tab.Value{
			{Kind: tab.FieldText, Valid: true, Text: "A"},
			{Kind: tab.FieldNumeric, Valid: true, Dec: decimal.RequireFromString("1.00"), Prec: 2},
			{Kind: tab.FieldText, Valid: false},
			{Kind: tab.FieldText, Valid: false},
		}}},
	}
	emptyNote := &tab.TypedTable{
		Columns: []string{"id", "amount", "note", "load_batch"},
		Rows: []tab.TypedRow{{Line: 2, Values: []tab.Value{
			{Kind: tab.FieldText, Valid: true, Text: "A"},
			{Kind: tab.FieldNumeric, Valid: true, Dec: decimal.RequireFromString("1.00"), Prec: 2},
			{Kind: tab.FieldText, Valid: true, Text: ""},
			{Kind: tab.FieldText, Valid: false},
		}}},
	}

	a, err := Finalize(nullNote, c)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	b, err := Finalize(emptyNote, c)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if a.Rows[0].ContentHash == b.Rows[0].ContentHash {
		t.Error("null and empty string must hash differently")
	}
}

func TestFinalizeMissingColumn(t *testing.T) {
	c := canonContract(t)
	table := &tab.TypedTable{Columns: []string{"id"}}
	if _, err := Finalize(table, c); err == nil {
		t.Error("expected error for missing hash column")
	}
}
