// =============================================================================
// Order Consolidator - Sheet Reader
// =============================================================================
//
// This module turns an uploaded file into an in-memory table. Marketplace
// exports arrive in several shapes, so the format is detected from the
// content rather than from the file name:
//
//   | First bytes              | Format                          | Parser          |
//   |--------------------------|---------------------------------|-----------------|
//   | PK\x03\x04               | Office Open XML workbook (xlsx) | excelize        |
//   | "<" (after BOM/space)    | HTML table saved as ".xls"      | x/net/html      |
//   | anything else            | CSV (UTF-8, optional BOM)       | encoding/csv    |
//
// TABLE SHAPE:
//   - The first row is the header row. Header cells are trimmed and empty
//     headers get a "Column_N" placeholder.
//   - Data cells are kept verbatim so recipient identity is matched exactly.
//   - Rows shorter than the header are padded with blanks; fully blank rows
//     are skipped.
//
// =============================================================================

package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyTable is returned when a document has no header row.
var ErrEmptyTable = errors.New("table has no header row")

// utf8BOM prefixes many CSV and HTML files saved on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table is a header row plus data rows.
type Table struct {
	Headers []string
	Rows    []Row

	index map[string]int
}

// Row is one data row.
type Row struct {
	// Number is the 1-based row number in the source sheet.
	Number int
	Cells  []string
}

// NewTable builds a table from raw rows, the first of which is the header.
func NewTable(raw [][]string) (*Table, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{Headers: cleanHeaders(raw[0])}
	for i := 1; i < len(raw); i++ {
		if isRowEmpty(raw[i]) {
			continue
		}
		cells := make([]string, len(t.Headers))
		copy(cells, raw[i])
		t.Rows = append(t.Rows, Row{Number: i + 1, Cells: cells})
	}
	return t, nil
}

// Column returns the index of the first column named name.
func (t *Table) Column(name string) (int, bool) {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Headers))
		for i, h := range t.Headers {
			if _, dup := t.index[h]; !dup {
				t.index[h] = i
			}
		}
	}
	i, ok := t.index[name]
	return i, ok
}

// Value returns the cell of row in column name, or "" when the column does
// not exist.
func (t *Table) Value(row Row, name string) string {
	i, ok := t.Column(name)
	if !ok || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i]
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// ReadFile reads the table stored at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read detects the document format and parses the first table in it.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var raw [][]string
	switch detectFormat(data) {
	case formatXLSX:
		raw, err = readXLSX(data)
	case formatHTML:
		raw, err = readHTML(data)
	default:
		raw, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return NewTable(raw)
}

type format int

const (
	formatCSV format = iota
	formatXLSX
	formatHTML
)

func detectFormat(data []byte) format {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return formatXLSX
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return formatHTML
	}
	return formatCSV
}

// readXLSX returns the rows of the first sheet. Raw cell values are used so
// long numeric ids are not reformatted in scientific notation.
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))

	// Exports are not always rectangular.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
