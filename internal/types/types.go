// =============================================================================
// Stock Adjustment Tool - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser  (produces AdjustmentRow values)
//   - validation  (checks AdjustmentRow values)
//   - xlsxwriter  (materializes OutputBatch values)
//   - converter   (groups rows into batches)
//   - uploader    (produces UploadResult values)
//
// =============================================================================

package types

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ADJUSTMENT TYPES
// =============================================================================

// AdjustmentType classifies a stock adjustment. Only the two constants below
// are accepted by the transform stage.
type AdjustmentType string

const (
	// Inbound adds stock. Files are prefixed with PrefixInbound.
	Inbound AdjustmentType = "Inbound"

	// Outbound removes stock. Files are prefixed with PrefixOutbound.
	Outbound AdjustmentType = "Outbound"
)

// Output file name prefixes.
const (
	PrefixOutbound = "DCG"
	PrefixInbound  = "DCT"
)

// AdjustmentTypes lists the closed set of accepted types, in the order their
// output files are generated.
var AdjustmentTypes = []AdjustmentType{Outbound, Inbound}

// Valid reports whether t belongs to the closed set.
func (t AdjustmentType) Valid() bool {
	return t == Inbound || t == Outbound
}

// Prefix returns the output file name prefix for the type.
func (t AdjustmentType) Prefix() string {
	if t == Outbound {
		return PrefixOutbound
	}
	return PrefixInbound
}

// Discriminator is the integer written into cell A2 of an output file:
// 1 for outbound, 0 for inbound.
func (t AdjustmentType) Discriminator() int {
	if t == Outbound {
		return 1
	}
	return 0
}

// =============================================================================
// CELL VALUES
// =============================================================================

// Cell holds a raw spreadsheet value together with whether the source cell
// was numeric. Values are copied verbatim from input to output; the numeric
// flag only decides whether the output cell is written as a number or text.
type Cell struct {
	// Raw is the unformatted cell value as stored in the workbook.
	Raw string

	// Numeric is true when the source cell held a number.
	Numeric bool
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{Raw: s}
}

// Number returns a numeric cell with the shortest decimal representation of v.
func Number(v float64) Cell {
	return Cell{Raw: strconv.FormatFloat(v, 'f', -1, 64), Numeric: true}
}

// Value returns the cell as a value suitable for excelize.SetCellValue.
// Numeric cells that fail to parse fall back to their raw text.
func (c Cell) Value() interface{} {
	if !c.Numeric {
		return c.Raw
	}
	if i, err := strconv.ParseInt(c.Raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(c.Raw, 64); err == nil {
		return f
	}
	return c.Raw
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return c.Raw
}

// =============================================================================
// ADJUSTMENT ROW
// =============================================================================

// AdjustmentRow represents a single data row of the input spreadsheet.
type AdjustmentRow struct {
	// RowNumber is the 1-based row number in the input sheet.
	// Useful for error reporting.
	RowNumber int

	// DistributorCode groups rows into output files.
	DistributorCode Cell

	// AdjustmentType is the value read from the adjustment type column.
	// It is not guaranteed to be valid until validation has run.
	AdjustmentType AdjustmentType

	ProductCode   Cell
	WarehouseType Cell
	Quantity      Cell
}

// =============================================================================
// OUTPUT BATCH
// =============================================================================

// BatchKey identifies an output batch.
type BatchKey struct {
	Type            AdjustmentType
	DistributorCode string
}

// OutputBatch holds the ordered rows sharing one BatchKey.
type OutputBatch struct {
	Key BatchKey

	// DistributorCode is the cell written into B2. It keeps the cell type of
	// the first row in the batch.
	DistributorCode Cell

	// Rows are kept in input order.
	Rows []AdjustmentRow
}

// FileName returns the output file name for the batch,
// e.g. "DCG_D001.xlsx". Characters that are not allowed in file names are
// replaced with '_'.
func (b *OutputBatch) FileName() string {
	return b.Key.Type.Prefix() + "_" + fileNameReplacer.Replace(b.Key.DistributorCode) + ".xlsx"
}

var fileNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_",
	"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
)

// =============================================================================
// UPLOAD RESULT
// =============================================================================

// UploadResult is the outcome of uploading one output file.
// The csv tags are used when writing the upload report.
type UploadResult struct {
	RunID      string    `csv:"run_id"`
	File       string    `csv:"file"`
	Message    string    `csv:"message"`
	Error      string    `csv:"error,omitempty"`
	UploadedAt time.Time `csv:"uploaded_at"`
}

// Succeeded reports whether the upload sequence completed for the file.
// A completed sequence may still carry a rejection message from the site.
func (r UploadResult) Succeeded() bool {
	return r.Error == ""
}
