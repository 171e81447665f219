package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"raincloud/domain/table"
	"raincloud/internal"
	"raincloud/internal/errors"
)

// Reader parses CSV and spreadsheet uploads into a typed RawTable.
// The first row is always treated as column headers. Cells that are blank or
// not numeric become missing values; the reshaper drops them per group.
type Reader struct {
	log *internal.Logger
}

// NewReader creates a reader using the default logger.
func NewReader() *Reader {
	return &Reader{log: internal.DefaultLogger.Named("Reader")}
}

// Supports reports whether the filename carries a recognized extension.
func (r *Reader) Supports(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// Read parses the upload, sniffing the format from the filename extension.
func (r *Reader) Read(reader io.Reader, filename string) (table.RawTable, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return r.readCSV(reader)
	case ".xlsx", ".xls":
		return r.readSpreadsheet(reader)
	default:
		return table.RawTable{}, errors.UnsupportedFormat(
			fmt.Sprintf("unsupported file type %q, expected .csv, .xlsx or .xls", ext), nil)
	}
}

func (r *Reader) readCSV(reader io.Reader) (table.RawTable, error) {
	cr := csv.NewReader(reader)
	// Ragged rows are tolerated; short rows produce missing cells.
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return table.RawTable{}, errors.UnsupportedFormat("file is not valid CSV", err)
	}
	if len(rows) == 0 {
		return table.RawTable{}, errors.UnsupportedFormat("file is empty", nil)
	}

	r.log.Debug("CSV parsed: %d raw rows", len(rows))
	return r.buildTable(rows), nil
}

func (r *Reader) readSpreadsheet(reader io.Reader) (table.RawTable, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return table.RawTable{}, errors.UnsupportedFormat("file is not a readable spreadsheet", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return table.RawTable{}, errors.UnsupportedFormat("spreadsheet has no sheets", nil)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return table.RawTable{}, errors.UnsupportedFormat(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return table.RawTable{}, errors.UnsupportedFormat("spreadsheet is empty", nil)
	}

	r.log.Debug("spreadsheet parsed: sheet %q, %d raw rows", sheet, len(rows))
	return r.buildTable(rows), nil
}

// buildTable converts raw string rows into a RawTable. Headers come from the
// first row; empty header cells get positional fallback names and duplicate
// names get a numeric suffix so groups never merge silently.
func (r *Reader) buildTable(rows [][]string) table.RawTable {
	headerRow := rows[0]
	columns := make([]table.Column, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for j, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("Column %d", j+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		columns[j] = table.Column{
			Name:  name,
			Cells: make([]table.Cell, 0, len(rows)-1),
		}
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		for j := range columns {
			columns[j].Cells = append(columns[j].Cells, parseCell(row, j))
		}
	}

	r.log.Debug("table built: %d columns, %d rows", len(columns), len(rows)-1)
	return table.RawTable{Columns: columns}
}

// parseCell reads one cell from a raw row. Out-of-range, blank and
// non-numeric cells are all missing values.
func parseCell(row []string, j int) table.Cell {
	if j >= len(row) {
		return table.Missing
	}
	raw := strings.TrimSpace(row[j])
	if raw == "" {
		return table.Missing
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.Missing
	}
	return table.Num(v)
}
