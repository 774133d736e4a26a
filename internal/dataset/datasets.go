package dataset

// datasets.go registers the supported dataset compositions. Each definition
// binds a published schema contract to the routing pattern, duplicate
// policy, header aliases, and business-rule guardrails specific to that
// release family.

import (
	"regexp"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

func init() {
	// Reference rate tables: quarterly fixed-width (with an annual layout
	// fallback), occasionally shipped inside a zip alongside documentation.
	// Exactly one row per (area, plan, quarter) — duplicates block the load.
	Register(Definition{
		Key:      "refrate",
		Label:    "Reference Rate Table",
		SchemaID: "refrate.v1",

		FilePattern:          regexp.MustCompile(`(?i)^refrate[_-]`),
		ArchiveMemberPattern: regexp.MustCompile(`(?i)\.(txt|dat|csv)$`),

		DuplicateSeverity: tab.SeverityBlock,

		Aliases: map[string]string{
			"area":         "area_code",
			"plan":         "plan_id",
			"quarter":      "effective_quarter",
			"rate":         "rate_total",
			"total_rate":   "rate_total",
			"share":        "rate_share",
			"member_share": "rate_share",
			"enrolled":     "enrollment",
			"updated":      "last_updated",
			"update_date":  "last_updated",
		},

		PatternRules: []PatternRule{
			{Column: "area_code", Pattern: regexp.MustCompile(`^\d{5}$`)},
		},
		RangeRules: []RangeRule{
			{Column: "rate_total", SoftMin: dec("10"), SoftMax: dec("5000"), HardMin: dec("0"), HardMax: dec("100000")},
			{Column: "rate_share", HardMin: dec("0"), HardMax: dec("1")},
			{Column: "enrollment", HardMin: dec("0")},
		},
		RowBounds: &RowBounds{FailLow: 10, WarnLow: 50, WarnHigh: 500000, FailHigh: 2000000},
	})

	// Geographic crosswalk: delimited, republished on every boundary change.
	// Overlapping keys are expected during transitions, so duplicates warn
	// and quarantine rather than block.
	Register(Definition{
		Key:      "geoxwalk",
		Label:    "Geographic Crosswalk",
		SchemaID: "geoxwalk.v2",

		FilePattern: regexp.MustCompile(`(?i)^geo[_-]?(crosswalk|xwalk)`),

		DuplicateSeverity: tab.SeverityWarn,

		Aliases: map[string]string{
			"source":    "source_geoid",
			"src_geoid": "source_geoid",
			"target":    "target_geoid",
			"tgt_geoid": "target_geoid",
			"st":        "state",
			"ratio":     "allocation_ratio",
			"alloc":     "allocation_ratio",
			"is_active": "active",
		},

		RangeRules: []RangeRule{
			{Column: "allocation_ratio", HardMin: dec("0"), HardMax: dec("1")},
		},
	})

	// Facility directory: published as a workbook by the reporting tool.
	// One row per facility id; re-exports occasionally repeat rows, which
	// warn rather than block.
	Register(Definition{
		Key:      "facilities",
		Label:    "Facility Directory",
		SchemaID: "facilities.v1",

		FilePattern: regexp.MustCompile(`(?i)^facilit(y|ies)[_-]`),

		DuplicateSeverity: tab.SeverityWarn,

		Aliases: map[string]string{
			"id":         "facility_id",
			"facility":   "facility_id",
			"name":       "facility_name",
			"owner_type": "ownership",
			"certified":  "certified_on",
			"cert_date":  "certified_on",
			"beds":       "bed_count",
		},

		RangeRules: []RangeRule{
			{Column: "bed_count", HardMin: dec("0"), SoftMax: dec("5000"), HardMax: dec("20000")},
		},
	})
}
