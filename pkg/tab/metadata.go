package tab

import (
	"fmt"
	"strings"
	"time"
)

// Metadata is the provenance record the download orchestrator supplies with
// every file. Every field is required; a missing field is a fail-fast error
// naming what is absent, never a silent default.
type Metadata struct {
	ReleaseID       string
	SchemaID        string
	ProductYear     int
	QuarterVintage  string
	VintageDate     time.Time
	FileContentHash string
	SourceURI       string
}

// Validate checks that every required metadata field is populated.
// The returned error names all missing fields at once so the caller can fix
// them in one pass.
func (m Metadata) Validate() error {
	var missing []string

	if m.ReleaseID == "" {
		missing = append(missing, "release_id")
	}
	if m.SchemaID == "" {
		missing = append(missing, "schema_id")
	}
	if m.ProductYear == 0 {
		missing = append(missing, "product_year")
	}
	if m.QuarterVintage == "" {
		missing = append(missing, "quarter_vintage")
	}
	if m.VintageDate.IsZero() {
		missing = append(missing, "vintage_date")
	}
	if m.FileContentHash == "" {
		missing = append(missing, "file_content_hash")
	}
	if m.SourceURI == "" {
		missing = append(missing, "source_uri")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required metadata keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
