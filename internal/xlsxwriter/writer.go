// =============================================================================
// Stock Adjustment Tool - Output Workbook Writer
// =============================================================================
//
// This module materializes one OutputBatch as the workbook the inventory site
// imports. The layout is fixed by the site:
//
//   Row 1  | Adjustment Type | Unit Code | Order Type | Issue Number |   <- header band 1
//   Row 2  | 1 or 0          | D001      |            |              |   <- discriminator, distributor
//   Row 3  | Product Code    | Warehouse Type | Quantity |            |   <- header band 2
//   Row 4+ | P-100           | WH1            | 10       |            |   <- data rows
//
// The discriminator is 1 for outbound and 0 for inbound. Data cells are
// copied verbatim from the input.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// LAYOUT
// =============================================================================

// SheetName is the sheet the site reads.
const SheetName = "Sheet1"

// Layout constants.
const (
	// DataStartRow is the first data row.
	DataStartRow = 4

	// DiscriminatorCell holds 1 (outbound) or 0 (inbound).
	DiscriminatorCell = "A2"

	// DistributorCell holds the distributor code.
	DistributorCell = "B2"
)

// HeaderBand1 is written on row 1.
var HeaderBand1 = []string{"Adjustment Type", "Unit Code", "Order Type", "Issue Number"}

// HeaderBand2 is written on row 3.
var HeaderBand2 = []string{"Product Code", "Warehouse Type", "Quantity"}

const (
	bandFill     = "228B22"
	band1Font    = "FFFFFF"
	band2Font    = "FFA500"
	columnWidth  = 20
	band1Row     = 1
	band2Row     = 3
	styledColumn = "D"
)

// =============================================================================
// WRITER
// =============================================================================

// WriteBatch writes batch to path, replacing any existing file.
//
// PARAMETERS:
//   - path: The destination .xlsx path.
//   - batch: The rows of one (adjustment type, distributor) pair.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteBatch(path string, batch *types.OutputBatch) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeHeaders(f); err != nil {
		return err
	}

	if err := f.SetCellValue(SheetName, DiscriminatorCell, batch.Key.Type.Discriminator()); err != nil {
		return fmt.Errorf("failed to write discriminator: %w", err)
	}
	if err := f.SetCellValue(SheetName, DistributorCell, batch.DistributorCode.Value()); err != nil {
		return fmt.Errorf("failed to write distributor code: %w", err)
	}

	for i, row := range batch.Rows {
		values := []interface{}{
			row.ProductCode.Value(),
			row.WarehouseType.Value(),
			row.Quantity.Value(),
		}
		cell, err := excelize.CoordinatesToCellName(1, DataStartRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write data row %d: %w", DataStartRow+i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// writeHeaders writes both styled header bands and the column widths.
func writeHeaders(f *excelize.File) error {
	band1Style, err := headerStyle(f, band1Font)
	if err != nil {
		return err
	}
	band2Style, err := headerStyle(f, band2Font)
	if err != nil {
		return err
	}

	if err := writeBand(f, band1Row, HeaderBand1, band1Style); err != nil {
		return err
	}
	if err := writeBand(f, band2Row, HeaderBand2, band2Style); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", styledColumn, columnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writeBand(f *excelize.File, row int, captions []string, style int) error {
	for i, caption := range captions {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, caption); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style header %s: %w", cell, err)
		}
	}
	return nil
}

func headerStyle(f *excelize.File, fontColor string) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: fontColor},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bandFill}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}
