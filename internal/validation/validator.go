// =============================================================================
// Stock Adjustment Tool - Validation Engine
// =============================================================================
//
// This module validates the rows read from the input spreadsheet before any
// output is written.
//
// VALIDATION STRATEGY:
//   - Errors are collected, not returned on the first failure, so the user
//     sees every offending row at once
//   - Each error includes the row number and the offending value
//   - Any error rejects the whole batch; the transform stage writes nothing
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation error.
type ValidationError struct {
	// RowNumber is the 1-based row number in the input sheet.
	RowNumber int

	// Field is the name of the column that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d, field '%s': %s (value: '%s')",
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// ValidateAdjustmentTypes checks every row's adjustment type against the
// closed set of accepted values.
//
// RETURNS:
//   - One ValidationError per offending row, in row order. An empty result
//     means the batch is valid.
func ValidateAdjustmentTypes(rows []types.AdjustmentRow) []*ValidationError {
	var errs []*ValidationError

	for _, row := range rows {
		if row.AdjustmentType.Valid() {
			continue
		}
		errs = append(errs, &ValidationError{
			RowNumber: row.RowNumber,
			Field:     "Adjustment Type",
			Value:     string(row.AdjustmentType),
			Message:   "must be " + allowedList(),
		})
	}

	return errs
}

// Summarize joins validation errors into one message, listing at most limit
// entries.
func Summarize(errs []*ValidationError, limit int) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	for i, err := range errs {
		if limit > 0 && i == limit {
			fmt.Fprintf(&b, "; and %d more", len(errs)-limit)
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// allowedList renders the accepted adjustment types, e.g. "'Outbound' or 'Inbound'".
func allowedList() string {
	quoted := make([]string, len(types.AdjustmentTypes))
	for i, t := range types.AdjustmentTypes {
		quoted[i] = "'" + string(t) + "'"
	}
	return strings.Join(quoted, " or ")
}
