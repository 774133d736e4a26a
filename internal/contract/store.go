package contract

// store.go loads published contract documents.
//
// Documents are TOML, embedded at build time. The store decodes and validates
// every document exactly once, up front, so a malformed contract is a startup
// failure rather than a mid-parse surprise. After loading, the store is
// read-only and safe for unsynchronized concurrent readers.

import (
	"embed"
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

//go:embed contracts/*.toml
var contractFS embed.FS

// contractDoc is the TOML wire form of a contract.
type contractDoc struct {
	SchemaID       string      `toml:"schema_id"`
	Version        int         `toml:"version"`
	NaturalKeys    []string    `toml:"natural_keys"`
	ColumnOrder    []string    `toml:"column_order"`
	HashExclusions []string    `toml:"hash_exclusions"`
	BannedColumns  []string    `toml:"banned_columns"`
	Columns        []columnDoc `toml:"columns"`
}

type columnDoc struct {
	Name      string   `toml:"name"`
	Type      string   `toml:"type"`
	Required  bool     `toml:"required"`
	Nullable  bool     `toml:"nullable"`
	Enum      []string `toml:"enum"`
	Precision int32    `toml:"precision"`
}

// Store exposes published contracts by schema id.
type Store interface {
	Load(schemaID string) (*Contract, error)
}

// EmbeddedStore serves the contracts compiled into the binary.
type EmbeddedStore struct {
	contracts map[string]*Contract
}

// NewEmbeddedStore decodes and validates every embedded contract document.
// Any malformed document fails the whole load.
func NewEmbeddedStore() (*EmbeddedStore, error) {
	entries, err := contractFS.ReadDir("contracts")
	if err != nil {
		return nil, fmt.Errorf("reading embedded contracts: %w", err)
	}

	s := &EmbeddedStore{contracts: make(map[string]*Contract, len(entries))}
	for _, entry := range entries {
		data, err := contractFS.ReadFile("contracts/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading contract %s: %w", entry.Name(), err)
		}

		c, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", entry.Name(), err)
		}
		if _, dup := s.contracts[c.SchemaID]; dup {
			return nil, fmt.Errorf("contract %s: duplicate schema id %q", entry.Name(), c.SchemaID)
		}
		s.contracts[c.SchemaID] = c
	}

	return s, nil
}

// Load returns the published contract for a schema id.
func (s *EmbeddedStore) Load(schemaID string) (*Contract, error) {
	c, ok := s.contracts[schemaID]
	if !ok {
		return nil, fmt.Errorf("no contract published for schema %q", schemaID)
	}
	return c, nil
}

// SchemaIDs returns every published schema id, sorted.
func (s *EmbeddedStore) SchemaIDs() []string {
	ids := make([]string, 0, len(s.contracts))
	for id := range s.contracts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Decode parses and validates one TOML contract document.
func Decode(data []byte) (*Contract, error) {
	var doc contractDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}

	c := &Contract{
		SchemaID:       doc.SchemaID,
		Version:        doc.Version,
		NaturalKeys:    doc.NaturalKeys,
		ColumnOrder:    doc.ColumnOrder,
		BannedColumns:  doc.BannedColumns,
		HashExclusions: make(map[string]bool, len(doc.HashExclusions)),
		Columns:        make([]Column, 0, len(doc.Columns)),
	}
	for _, ex := range doc.HashExclusions {
		c.HashExclusions[ex] = true
	}

	for _, cd := range doc.Columns {
		ft, err := parseFieldType(cd.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", cd.Name, err)
		}
		c.Columns = append(c.Columns, Column{
			Name:      cd.Name,
			Type:      ft,
			Required:  cd.Required,
			Nullable:  cd.Nullable,
			Enum:      cd.Enum,
			Precision: cd.Precision,
		})
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseFieldType(s string) (tab.FieldType, error) {
	switch s {
	case "text":
		return tab.FieldText, nil
	case "enum":
		return tab.FieldEnum, nil
	case "date":
		return tab.FieldDate, nil
	case "numeric":
		return tab.FieldNumeric, nil
	case "int":
		return tab.FieldInt, nil
	case "bool":
		return tab.FieldBool, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}
