package decode

// fixedwidth.go slices layout-described releases line by line.
//
// Layout offsets are byte positions in the source encoding, so lines are
// sliced as raw bytes and each cell is transcoded afterwards. Transcoding
// first would widen legacy single-byte characters to multi-byte UTF-8 and
// shift every later column.
//
// Lines shorter than the layout's minimum length are header/footer noise and
// are silently skipped — they are not rows considered, so they never appear
// as rejects. A data line too short to cover the layout's byte extent is a
// structural failure: the published layout does not match the file, and the
// whole invocation aborts.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tabular/internal/layout"
	"github.com/JonMunkholm/tabular/pkg/tab"
)

// FixedWidth decodes raw content against a published layout. The detected
// source encoding is returned for the parse metrics.
func FixedWidth(content []byte, l *layout.Layout) (*tab.RawTable, Encoding, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	enc := sniffEncoding(content)

	table := &tab.RawTable{Columns: l.ColumnNames()}
	extent := l.MaxEnd()

	started := l.DataStartPattern == nil
	for i, line := range bytes.Split(content, []byte{'\n'}) {
		line = bytes.TrimRight(line, "\r")
		if len(line) < l.MinLineLength {
			continue
		}
		if !started {
			if !l.DataStartPattern.Match(line) {
				continue
			}
			started = true
		}

		if len(line) < extent {
			return nil, enc, &tab.LayoutMismatchError{
				Dataset: l.Dataset,
				Version: l.Version,
				Line:    i + 1,
				Detail:  fmt.Sprintf("line length %d shorter than layout extent %d", len(line), extent),
			}
		}

		cells := make([]string, len(l.Columns))
		for j, col := range l.Columns {
			cells[j] = strings.TrimSpace(decodeSlice(line[col.Start:col.End], enc))
		}
		table.Rows = append(table.Rows, tab.RawRow{Line: i + 1, Cells: cells})
	}

	return table, enc, nil
}
