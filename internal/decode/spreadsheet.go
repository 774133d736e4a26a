package decode

// spreadsheet.go reads workbook releases with every cell as text.
//
// RawCellValue is non-negotiable: letting the workbook layer coerce numbers
// or dates would lose precision before the explicit casting stage, and
// identical logical data delivered as spreadsheet vs text would stop hashing
// identically.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tabular/pkg/tab"
)

// Spreadsheet decodes the first sheet of a workbook into a RawTable.
// Row numbers in the output are 1-indexed sheet rows.
func Spreadsheet(data []byte) (*tab.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	table := &tab.RawTable{}
	for i, row := range rows {
		if isEmptyRecord(row) {
			continue
		}

		if table.Columns == nil {
			cols := make([]string, len(row))
			for j, c := range row {
				cols[j] = strings.TrimSpace(scrubCell(c))
			}
			table.Columns = cols
			continue
		}

		// Sheet rows are ragged: trailing blank cells are dropped by the
		// reader. Pad to header width so blanks stay blanks, not short rows.
		cells := make([]string, len(table.Columns))
		copy(cells, row)
		table.Rows = append(table.Rows, tab.RawRow{Line: i + 1, Cells: cells})
	}

	if table.Columns == nil {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}
	return table, nil
}
