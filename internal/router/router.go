// Package router makes the single up-front decision for each input file:
// which dataset it belongs to, which schema contract applies, and what
// physical format the content is in.
//
// Routing uses the filename for dataset identity and a bounded content
// prefix for format. The declared MIME type is advisory only — upstream
// servers routinely mislabel releases — so content evidence always wins.
// A file the router cannot place is quarantined whole via
// UnroutableInputError; the router never guesses.
package router

import (
	"strings"

	"github.com/JonMunkholm/tabular/internal/dataset"
	"github.com/JonMunkholm/tabular/internal/decode"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// spreadsheet MIME types seen in the wild, used only to break the tie
// between a bare zip archive and a workbook (both share the zip magic).
var spreadsheetMIMEs = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
}

// Route determines the dataset and format for one input file. head should be
// the first SniffLimit bytes of content (the whole file is fine too).
func Route(filename string, head []byte, declaredMIME string) (*tab.RouteDecision, error) {
	def, ok := dataset.Match(filename)
	if !ok {
		return nil, &tab.UnroutableInputError{
			Filename: filename,
			Detail:   "no registered dataset matches the filename",
		}
	}

	c, err := dataset.Contracts().Load(def.SchemaID)
	if err != nil {
		return nil, &tab.UnroutableInputError{
			Filename: filename,
			Detail:   "contract " + def.SchemaID + ": " + err.Error(),
		}
	}

	decision := &tab.RouteDecision{
		DatasetID:   def.Key,
		SchemaID:    def.SchemaID,
		NaturalKeys: c.NaturalKeys,
		ParserKey:   def.Key,
	}

	if decode.IsZip(head) {
		// A workbook is itself a zip container; the extension or the
		// declared MIME separates it from a plain archive.
		if strings.HasSuffix(strings.ToLower(filename), ".xlsx") || spreadsheetMIMEs[declaredMIME] {
			decision.Format = tab.FormatSpreadsheet
		} else {
			decision.Format = tab.FormatArchive
		}
		return decision, nil
	}

	sample, _ := decode.DecodeText(truncate(head, decode.SniffLimit))
	switch format, delim := decode.SniffTextFormat(sample); format {
	case decode.TextDelimited:
		decision.Format = tab.FormatDelimited
		decision.Delimiter = delim
	case decode.TextFixedWidth:
		decision.Format = tab.FormatFixedWidth
	default:
		return nil, &tab.UnroutableInputError{
			Filename: filename,
			Detail:   "content is neither delimited, fixed-width, spreadsheet, nor archive",
		}
	}
	return decision, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
