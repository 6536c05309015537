// =============================================================================
// Stock Adjustment Tool - Input Spreadsheet Parser
// =============================================================================
//
// This module reads stock-adjustment rows from the input spreadsheet.
//
// INPUT STRUCTURE (Expected Columns):
//
//   | Column A         | Column B        | Column C     | Column D       | Column E |
//   |------------------|-----------------|--------------|----------------|----------|
//   | Distributor Code | Adjustment Type | Product Code | Warehouse Type | Quantity |
//   | D001             | Outbound        | P-100        | WH1            | 10       |
//   | D001             | Outbound        | P-200        | WH1            | 5        |
//   | D002             | Inbound         | P-300        | WH2            | 7        |
//
// Row 1 is the header and is skipped. A row is kept only when all five cells
// are non-blank; anything else is skipped without error. Values are read raw
// (unformatted) so they can be copied verbatim into the output workbooks.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// INPUT COLUMN CONFIGURATION
// =============================================================================

// InputColumns defines which columns of the input sheet hold which field.
// Column indices are 0-based (A=0, B=1, C=2, etc.)
type InputColumns struct {
	DistributorCodeColumn int
	AdjustmentTypeColumn  int
	ProductCodeColumn     int
	WarehouseTypeColumn   int
	QuantityColumn        int

	// DataStartRow is the 1-based row where data begins.
	// Default: 2 (Row 1 is the header)
	DataStartRow int
}

// DefaultInputColumns returns the column layout of the input template.
func DefaultInputColumns() InputColumns {
	return InputColumns{
		DistributorCodeColumn: 0, // Column A
		AdjustmentTypeColumn:  1, // Column B
		ProductCodeColumn:     2, // Column C
		WarehouseTypeColumn:   3, // Column D
		QuantityColumn:        4, // Column E
		DataStartRow:          2,
	}
}

// fields returns the column indices in AdjustmentRow field order.
func (c InputColumns) fields() []int {
	return []int{
		c.DistributorCodeColumn,
		c.AdjustmentTypeColumn,
		c.ProductCodeColumn,
		c.WarehouseTypeColumn,
		c.QuantityColumn,
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadAdjustments reads every complete row of the input spreadsheet.
//
// PARAMETERS:
//   - path: The path to the input workbook.
//
// RETURNS:
//   - The complete rows, in sheet order.
//   - An error if the file cannot be opened or read.
func ReadAdjustments(path string) ([]types.AdjustmentRow, error) {
	return ReadAdjustmentsWithConfig(path, DefaultInputColumns())
}

// ReadAdjustmentsWithConfig reads the input spreadsheet using a custom column
// layout.
func ReadAdjustmentsWithConfig(path string, columns InputColumns) ([]types.AdjustmentRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	// The active sheet is the one the user last had open.
	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	if sheetName == "" {
		return nil, fmt.Errorf("input file has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var result []types.AdjustmentRow
	for i := columns.DataStartRow - 1; i < len(rows); i++ {
		rowNumber := i + 1

		cells, complete, err := readCells(f, sheetName, rows[i], rowNumber, columns.fields())
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", rowNumber, err)
		}

		// Skip rows with any blank field.
		if !complete {
			continue
		}

		result = append(result, types.AdjustmentRow{
			RowNumber:       rowNumber,
			DistributorCode: cells[0],
			AdjustmentType:  types.AdjustmentType(strings.TrimSpace(cells[1].Raw)),
			ProductCode:     cells[2],
			WarehouseType:   cells[3],
			Quantity:        cells[4],
		})
	}

	return result, nil
}

// readCells extracts the given columns of one row. complete is false as soon
// as one of the cells is blank.
func readCells(f *excelize.File, sheet string, row []string, rowNumber int, indices []int) ([]types.Cell, bool, error) {
	cells := make([]types.Cell, len(indices))

	for i, col := range indices {
		raw := ""
		if col < len(row) {
			raw = row[col]
		}
		if strings.TrimSpace(raw) == "" {
			return nil, false, nil
		}

		ref, err := excelize.CoordinatesToCellName(col+1, rowNumber)
		if err != nil {
			return nil, false, err
		}
		cellType, err := f.GetCellType(sheet, ref)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read type of %s: %w", ref, err)
		}

		cells[i] = types.Cell{Raw: raw, Numeric: isNumeric(cellType, raw)}
	}

	return cells, true, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isNumeric reports whether a cell holds a number. Numeric cells are usually
// stored without a type attribute, so an unset type with a parseable value
// counts as a number too.
func isNumeric(cellType excelize.CellType, raw string) bool {
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		_, err := strconv.ParseFloat(raw, 64)
		return err == nil
	default:
		return false
	}
}
