package dataset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/tabular/internal/layout"
)

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds a dataset definition to the registry. It panics on a
// duplicate key, a missing contract, or a layout/contract misalignment —
// all of which are publication mistakes, not runtime conditions.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("dataset already registered: %s", def.Key))
	}
	if def.FilePattern == nil {
		panic(fmt.Sprintf("dataset %s: no file pattern", def.Key))
	}

	c, err := contracts.Load(def.SchemaID)
	if err != nil {
		panic(fmt.Sprintf("dataset %s: %v", def.Key, err))
	}
	for _, l := range layouts.ForDataset(def.Key) {
		if err := layout.CheckAlignment(l, c); err != nil {
			panic(fmt.Sprintf("dataset %s: %v", def.Key, err))
		}
	}
	for _, rule := range def.PatternRules {
		if !c.HasColumn(rule.Column) {
			panic(fmt.Sprintf("dataset %s: pattern rule on unknown column %q", def.Key, rule.Column))
		}
	}
	for _, rule := range def.RangeRules {
		if !c.HasColumn(rule.Column) {
			panic(fmt.Sprintf("dataset %s: range rule on unknown column %q", def.Key, rule.Column))
		}
	}

	registry[def.Key] = def
}

// Get returns a dataset definition by key.
func Get(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Match returns the dataset whose file pattern matches the filename.
// Returns false when no dataset (or more than one) matches: an ambiguous
// filename is as unroutable as an unknown one.
func Match(filename string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var found []Definition
	for _, def := range registry {
		if def.FilePattern.MatchString(filename) {
			found = append(found, def)
		}
	}
	if len(found) != 1 {
		return Definition{}, false
	}
	return found[0], true
}

// All returns every registered dataset, sorted by key.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Clear removes all registered datasets. Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Definition)
}
