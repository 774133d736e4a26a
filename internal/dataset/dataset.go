// Package dataset composes the full parse pipeline for each supported
// dataset: decoding, header normalization, schema regression checks,
// categorical validation, casting, business rules, uniqueness, and
// canonicalization.
//
// Datasets are registered at init time. Registration is also where the
// release-time alignment check runs: every published fixed-width layout for
// a dataset must name only columns its schema contract declares, so a
// misaligned pair can never reach a runtime parse.
package dataset

import (
	"fmt"
	"regexp"

	"github.com/JonMunkholm/tabular/internal/contract"
	"github.com/JonMunkholm/tabular/internal/layout"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Definition contains everything needed to parse one dataset.
type Definition struct {
	// Key uniquely identifies the dataset ("refrate").
	Key string
	// Label is the human-readable name.
	Label string
	// SchemaID names the published contract version this dataset parses
	// against.
	SchemaID string

	// FilePattern routes filenames to this dataset.
	FilePattern *regexp.Regexp

	// ArchiveMemberPattern selects the data member of a multi-member
	// archive. Nil means only single-member archives are accepted.
	ArchiveMemberPattern *regexp.Regexp

	// DuplicateSeverity is the natural-key duplicate policy.
	DuplicateSeverity tab.Severity

	// Aliases maps cleaned source headers to canonical contract columns.
	Aliases map[string]string

	// PatternRules, RangeRules, and RowBounds are the dataset's
	// business-rule guardrails.
	PatternRules []PatternRule
	RangeRules   []RangeRule
	RowBounds    *RowBounds
}

// Shared read-only stores, loaded once from the embedded documents. A
// malformed document is a startup failure.
var (
	contracts *contract.EmbeddedStore
	layouts   *layout.Registry
)

func init() {
	var err error
	contracts, err = contract.NewEmbeddedStore()
	if err != nil {
		panic(fmt.Sprintf("loading embedded contracts: %v", err))
	}
	layouts, err = layout.NewRegistry()
	if err != nil {
		panic(fmt.Sprintf("loading embedded layouts: %v", err))
	}
}

// Contracts exposes the shared contract store (read-only after load).
func Contracts() contract.Store { return contracts }

// Layouts exposes the shared layout registry (read-only after load).
func Layouts() *layout.Registry { return layouts }
