package layout

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/tabular/internal/contract"
)

// CheckAlignment verifies that every layout column name appears verbatim in
// the schema contract. Dataset registration runs this for every published
// layout, so a misaligned layout/contract pair is a startup failure, never a
// runtime one.
func CheckAlignment(l *Layout, c *contract.Contract) error {
	var unknown []string
	for _, col := range l.Columns {
		if !c.HasColumn(col.Name) {
			unknown = append(unknown, col.Name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("layout %s %d q%d v%d: columns not in contract %s: %s",
			l.Dataset, l.Year, l.Quarter, l.Version, c.SchemaID, strings.Join(unknown, ", "))
	}
	return nil
}
