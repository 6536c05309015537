// =============================================================================
// Stock Adjustment Tool - Input Template Manager
// =============================================================================
//
// This module makes sure the input spreadsheet exists. When it does not, a
// styled workbook with the fixed header row is created so the user has a
// file to fill in.
//
// TEMPLATE STRUCTURE:
//
//   | Column A         | Column B        | Column C     | Column D       | Column E |
//   |------------------|-----------------|--------------|----------------|----------|
//   | Distributor Code | Adjustment Type | Product Code | Warehouse Type | Quantity |
//   | D001             | Outbound        | P-100        | WH1            | 10       |
//
// Data starts on row 2. Adjustment Type must be "Inbound" or "Outbound".
//
// =============================================================================

package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the sheet in a freshly created template.
const SheetName = "Template"

// Headers are the captions of row 1, in column order.
var Headers = []string{
	"Distributor Code",
	"Adjustment Type",
	"Product Code",
	"Warehouse Type",
	"Quantity",
}

const (
	headerFill  = "FFD966"
	columnWidth = 25
)

// EnsureInputTemplate creates the input template at path if it is absent.
//
// RETURNS:
//   - true if the file was created by this call.
//   - An error if the file cannot be checked or written.
func EnsureInputTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to check template file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create template directory: %w", err)
	}

	if err := writeTemplate(path); err != nil {
		return false, err
	}
	return true, nil
}

// writeTemplate builds and saves the styled workbook.
func writeTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet is renamed rather than adding a second one.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style header %s: %w", cell, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}
