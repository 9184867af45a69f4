// Package excel reads tabular import files (xlsx/xls/csv) into raw rows.
// Interpretation of the columns is left to the caller.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row. Number is the position in the source file (1-based,
// counting the header as row 1) so validation errors can point at the sheet.
type Row struct {
	Number int
	Cells  []string
}

// ParseFile dispatches on the file extension. The first row is treated as a
// header and skipped; fully blank rows are dropped.
func ParseFile(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return parseExcel(path)
	case ".csv":
		return parseCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

func parseExcel(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return collect(raw), nil
}

func parseCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	raw, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return collect(raw), nil
}

func collect(raw [][]string) []Row {
	var rows []Row
	for i, cells := range raw {
		if i == 0 {
			continue // header
		}
		trimmed := make([]string, len(cells))
		blank := true
		for j, c := range cells {
			trimmed[j] = strings.TrimSpace(c)
			if trimmed[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, Row{Number: i + 1, Cells: trimmed})
	}
	return rows
}

// Cell returns the idx-th cell or "" when the row is short.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return r.Cells[idx]
}
