// Package layout holds the versioned byte-offset tables used to slice
// fixed-width releases, keyed by (dataset, product year, quarter).
//
// Layouts are published once per quarter or year as embedded TOML and are
// immutable after load. Lookup falls back from the exact quarter to the
// annual table; when neither exists the caller falls back to delimited
// decoding.
package layout

import (
	"embed"
	"fmt"
	"regexp"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

//go:embed layouts/*.toml
var layoutFS embed.FS

// Column is one named byte range. Start is inclusive, End exclusive.
type Column struct {
	Name  string
	Start int
	End   int
}

// Layout describes how to slice one fixed-width release into named fields.
type Layout struct {
	Dataset string
	Year    int
	Quarter int // 0 for annual tables
	Version int

	// MinLineLength separates data lines from header/footer noise: shorter
	// lines are silently skipped, never rejected.
	MinLineLength int

	// DataStartPattern, when set, marks the first data line; everything
	// before the first match is preamble.
	DataStartPattern *regexp.Regexp

	// Columns ordered by Start.
	Columns []Column
}

// MaxEnd returns the largest column end offset. Data lines shorter than this
// cannot be sliced and indicate a layout mismatch.
func (l *Layout) MaxEnd() int {
	max := 0
	for _, c := range l.Columns {
		if c.End > max {
			max = c.End
		}
	}
	return max
}

// ColumnNames returns the layout's column names in slice order.
func (l *Layout) ColumnNames() []string {
	names := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		names[i] = c.Name
	}
	return names
}

func (l *Layout) validate() error {
	if l.Dataset == "" {
		return fmt.Errorf("layout missing dataset")
	}
	if l.Year == 0 {
		return fmt.Errorf("layout %s: missing year", l.Dataset)
	}
	if l.Version <= 0 {
		return fmt.Errorf("layout %s %d: version must be positive", l.Dataset, l.Year)
	}
	if len(l.Columns) == 0 {
		return fmt.Errorf("layout %s %d: no columns", l.Dataset, l.Year)
	}

	sort.Slice(l.Columns, func(i, j int) bool { return l.Columns[i].Start < l.Columns[j].Start })

	seen := make(map[string]bool, len(l.Columns))
	prevEnd := 0
	for _, c := range l.Columns {
		if c.Name == "" {
			return fmt.Errorf("layout %s %d: unnamed column", l.Dataset, l.Year)
		}
		if seen[c.Name] {
			return fmt.Errorf("layout %s %d: duplicate column %q", l.Dataset, l.Year, c.Name)
		}
		seen[c.Name] = true
		if c.End <= c.Start {
			return fmt.Errorf("layout %s %d: column %q has empty range [%d,%d)", l.Dataset, l.Year, c.Name, c.Start, c.End)
		}
		if c.Start < prevEnd {
			return fmt.Errorf("layout %s %d: column %q overlaps previous column", l.Dataset, l.Year, c.Name)
		}
		prevEnd = c.End
	}

	if l.MinLineLength <= 0 {
		return fmt.Errorf("layout %s %d: min_line_length must be positive", l.Dataset, l.Year)
	}
	return nil
}

// layoutDoc is the TOML wire form.
type layoutDoc struct {
	Dataset          string      `toml:"dataset"`
	Year             int         `toml:"year"`
	Quarter          int         `toml:"quarter"`
	Version          int         `toml:"version"`
	MinLineLength    int         `toml:"min_line_length"`
	DataStartPattern string      `toml:"data_start_pattern"`
	Columns          []columnDoc `toml:"columns"`
}

type columnDoc struct {
	Name  string `toml:"name"`
	Start int    `toml:"start"`
	End   int    `toml:"end"`
}

// Registry is the read-only collection of published layouts.
type Registry struct {
	layouts map[string]*Layout
}

func key(dataset string, year, quarter int) string {
	return fmt.Sprintf("%s|%d|%d", dataset, year, quarter)
}

// NewRegistry decodes and validates every embedded layout document.
func NewRegistry() (*Registry, error) {
	entries, err := layoutFS.ReadDir("layouts")
	if err != nil {
		return nil, fmt.Errorf("reading embedded layouts: %w", err)
	}

	r := &Registry{layouts: make(map[string]*Layout, len(entries))}
	for _, entry := range entries {
		data, err := layoutFS.ReadFile("layouts/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading layout %s: %w", entry.Name(), err)
		}

		l, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", entry.Name(), err)
		}

		k := key(l.Dataset, l.Year, l.Quarter)
		if _, dup := r.layouts[k]; dup {
			return nil, fmt.Errorf("layout %s: duplicate key %s", entry.Name(), k)
		}
		r.layouts[k] = l
	}

	return r, nil
}

// Get looks up a layout: exact (dataset, year, quarter) first, then the
// annual (dataset, year) table. Returns nil when neither is published, in
// which case the caller falls back to delimited decoding.
func (r *Registry) Get(dataset string, year, quarter int) *Layout {
	if l, ok := r.layouts[key(dataset, year, quarter)]; ok {
		return l
	}
	if quarter != 0 {
		if l, ok := r.layouts[key(dataset, year, 0)]; ok {
			return l
		}
	}
	return nil
}

// ForDataset returns every published layout for a dataset.
func (r *Registry) ForDataset(dataset string) []*Layout {
	var out []*Layout
	for _, l := range r.layouts {
		if l.Dataset == dataset {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Quarter < out[j].Quarter
	})
	return out
}

func decode(data []byte) (*Layout, error) {
	var doc layoutDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}

	l := &Layout{
		Dataset:       doc.Dataset,
		Year:          doc.Year,
		Quarter:       doc.Quarter,
		Version:       doc.Version,
		MinLineLength: doc.MinLineLength,
		Columns:       make([]Column, 0, len(doc.Columns)),
	}
	if doc.DataStartPattern != "" {
		re, err := regexp.Compile(doc.DataStartPattern)
		if err != nil {
			return nil, fmt.Errorf("data_start_pattern: %w", err)
		}
		l.DataStartPattern = re
	}
	for _, cd := range doc.Columns {
		l.Columns = append(l.Columns, Column{Name: cd.Name, Start: cd.Start, End: cd.End})
	}

	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}
