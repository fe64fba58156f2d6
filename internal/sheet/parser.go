package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row of a spreadsheet. Number is 1-based counting the header
// as row 1, so the first data row is number 2. Cell keys are lower-cased
// header names, which makes column lookups case-insensitive across the known
// alias set (Theory/theory and friends).
type Row struct {
	Number int
	Cells  map[string]string
}

// Cell returns the trimmed value of the named column.
func (r Row) Cell(name string) string {
	return strings.TrimSpace(r.Cells[strings.ToLower(name)])
}

// Parse reads the first sheet of an xlsx workbook into rows. Rows that are
// entirely empty are skipped but keep their position in the numbering.
func Parse(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		row := Row{Number: i + 2, Cells: make(map[string]string, len(headers))}
		empty := true
		for j, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if j < len(cells) {
				value = strings.TrimSpace(cells[j])
			}
			if value != "" {
				empty = false
			}
			row.Cells[header] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
