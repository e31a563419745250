// =============================================================================
// Order Consolidator - Sheet Writer
// =============================================================================
//
// This module writes an output table to an xlsx workbook with a single
// named sheet. Column widths are sized to the widest cell of each column,
// counting Hangul and other East-Asian wide characters as wider than
// Latin ones so Korean text is not clipped.
//
// WIDTH HEURISTIC:
//   width = runes + 0.75 * wide runes + 1, capped at Excel's limit of 255.
//
// =============================================================================

package sheet

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"
)

// maxColumnWidth is the largest width Excel accepts.
const maxColumnWidth = 255

// Output is a table ready to be written.
type Output struct {
	// SheetName is the name of the only sheet in the workbook.
	SheetName string
	Headers   []string
	Rows      [][]any
}

// Save writes out to a new workbook at path.
func Save(path string, out *Output) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, out); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write encodes out as an xlsx workbook.
func Write(w io.Writer, out *Output) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := out.SheetName
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(out.Headers))
	for i, h := range out.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range out.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for col, w := range columnWidths(out) {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, w); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func columnWidths(out *Output) []float64 {
	widths := make([]float64, len(out.Headers))
	for i, h := range out.Headers {
		widths[i] = VisualWidth(h)
	}
	for _, row := range out.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := VisualWidth(fmt.Sprint(row[i])); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, w := range widths {
		if w > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}
	return widths
}

// VisualWidth estimates the display width of s in spreadsheet units.
func VisualWidth(s string) float64 {
	n := 0.0
	for _, r := range s {
		n++
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 0.75
		}
	}
	return n + 1
}
