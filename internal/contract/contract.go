// Package contract holds the versioned schema contracts that drive every
// parse: declared columns, types, precision, enum domains, natural keys, and
// the ordered hash-relevant column subset.
//
// Contracts are published as TOML documents embedded in the binary, decoded
// and validated once at load, and never mutated afterwards. Any column
// rename, position change, or precision change requires publishing a new
// version under a new schema id. Because contracts are immutable after load,
// concurrent readers need no locking.
package contract

import (
	"fmt"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Column is the declared shape of a single contract column.
type Column struct {
	Name      string
	Type      tab.FieldType
	Required  bool // column must be present in the decoded header
	Nullable  bool // empty cells allowed
	Enum      []string
	Precision int32 // decimal places, FieldNumeric only
}

// Contract is one published schema version.
type Contract struct {
	SchemaID string
	Version  int

	// Columns in declared order. TypedTable output follows this order.
	Columns []Column

	// NaturalKeys is the ordered minimal column tuple identifying a logical
	// record. Order matters: it defines sort order and key-hash input.
	NaturalKeys []string

	// ColumnOrder is the ordered hash-relevant column subset the row content
	// hash is computed over.
	ColumnOrder []string

	// HashExclusions names provenance/metadata columns that must never feed
	// the content hash, even if they appear in ColumnOrder by mistake.
	HashExclusions map[string]bool

	// BannedColumns must not appear in decoded input (e.g. columns dropped
	// for privacy reasons in a prior version).
	BannedColumns []string

	byName map[string]int
}

// Column returns the declared column by name.
func (c *Contract) Column(name string) (Column, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Column{}, false
	}
	return c.Columns[i], true
}

// HasColumn reports whether the contract declares the named column.
func (c *Contract) HasColumn(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// CategoricalColumns returns the names of all enum-typed columns in declared
// order.
func (c *Contract) CategoricalColumns() []string {
	var out []string
	for _, col := range c.Columns {
		if col.Type == tab.FieldEnum {
			out = append(out, col.Name)
		}
	}
	return out
}

// HashColumns returns ColumnOrder with exclusions removed, in order. This is
// the exact column sequence content hashes are computed over.
func (c *Contract) HashColumns() []string {
	out := make([]string, 0, len(c.ColumnOrder))
	for _, name := range c.ColumnOrder {
		if !c.HashExclusions[name] {
			out = append(out, name)
		}
	}
	return out
}

// validate fails fast on a malformed contract so a bad document can never
// reach a parse invocation.
func (c *Contract) validate() error {
	if c.SchemaID == "" {
		return fmt.Errorf("contract missing schema_id")
	}
	if c.Version <= 0 {
		return fmt.Errorf("contract %s: version must be positive", c.SchemaID)
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("contract %s: no columns declared", c.SchemaID)
	}

	c.byName = make(map[string]int, len(c.Columns))
	for i, col := range c.Columns {
		if col.Name == "" {
			return fmt.Errorf("contract %s: column %d has no name", c.SchemaID, i)
		}
		if _, dup := c.byName[col.Name]; dup {
			return fmt.Errorf("contract %s: duplicate column %q", c.SchemaID, col.Name)
		}
		if col.Type == tab.FieldEnum && len(col.Enum) == 0 {
			return fmt.Errorf("contract %s: enum column %q has no domain", c.SchemaID, col.Name)
		}
		if col.Type != tab.FieldNumeric && col.Precision != 0 {
			return fmt.Errorf("contract %s: column %q declares precision but is not numeric", c.SchemaID, col.Name)
		}
		if col.Precision < 0 {
			return fmt.Errorf("contract %s: column %q has negative precision", c.SchemaID, col.Name)
		}
		c.byName[col.Name] = i
	}

	if len(c.NaturalKeys) == 0 {
		return fmt.Errorf("contract %s: no natural keys declared", c.SchemaID)
	}
	for _, k := range c.NaturalKeys {
		if !c.HasColumn(k) {
			return fmt.Errorf("contract %s: natural key %q is not a declared column", c.SchemaID, k)
		}
	}

	if len(c.ColumnOrder) == 0 {
		return fmt.Errorf("contract %s: no hash column order declared", c.SchemaID)
	}
	for _, k := range c.ColumnOrder {
		if !c.HasColumn(k) {
			return fmt.Errorf("contract %s: hash column %q is not a declared column", c.SchemaID, k)
		}
	}

	return nil
}
