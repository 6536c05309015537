// =============================================================================
// Stock Adjustment Tool - Transform Stage
// =============================================================================
//
// This module contains the transform stage. It turns the input spreadsheet
// into one output workbook per (adjustment type, distributor) pair.
//
// TRANSFORM PIPELINE:
//   1. Ensure the input template exists (create it if absent)
//   2. Read the complete rows of the input spreadsheet
//   3. Validate the adjustment type of every row
//   4. Clear the output directory
//   5. Group rows by adjustment type, then by distributor code
//   6. Write one workbook per group
//
// FAILURE SEMANTICS:
//   Steps 1-3 never touch the output directory. A validation failure aborts
//   the run before step 4, so the previous output is left as it was.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/template"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/validation"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/xlsxparser"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/xlsxwriter"
	"github.com/ginjaninja78/stock-adjustment-tool/pkg/utils"
	"go.uber.org/zap"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidTemplate is returned when at least one row carries an
	// adjustment type outside the accepted set. No file is written.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrNoData is returned when the input holds no complete row.
	ErrNoData = errors.New("no valid data in template")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one transform run.
type Result struct {
	// TemplatePath is the input spreadsheet that was read.
	TemplatePath string

	// TemplateCreated is true when the input template did not exist and
	// was created by this run.
	TemplateCreated bool

	// OutputFiles are the generated workbooks, in generation order.
	OutputFiles []string

	// ValidationErrors is set when the run was rejected.
	ValidationErrors []*validation.ValidationError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of complete rows read from the input.
	RowsRead int

	// FilesRemoved is the number of files cleared from the output directory.
	FilesRemoved int

	// OutboundFiles and InboundFiles count the generated workbooks per type.
	OutboundFiles int
	InboundFiles  int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the transform stage.
type Converter struct {
	// templatePath is the input spreadsheet.
	templatePath string

	// files manages the output directory.
	files *utils.FileManager

	logger *zap.Logger
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - templatePath: The input spreadsheet.
//   - files: The file manager owning the output directory.
//   - logger: The logger; nil disables logging.
func New(templatePath string, files *utils.FileManager, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		templatePath: templatePath,
		files:        files,
		logger:       logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the transform pipeline.
//
// RETURNS:
//   - A Result describing the run. It is never nil.
//   - ErrNoData or an error wrapping ErrInvalidTemplate for rejected input;
//     any other error is an I/O failure.
func (c *Converter) Run() (*Result, error) {
	startTime := time.Now()
	result := &Result{TemplatePath: c.templatePath}
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	// =========================================================================
	// STEP 1: ENSURE TEMPLATE
	// =========================================================================

	created, err := template.EnsureInputTemplate(c.templatePath)
	if err != nil {
		return result, fmt.Errorf("failed to create input template: %w", err)
	}
	result.TemplateCreated = created
	if created {
		c.logger.Info("Created input template", zap.String("path", c.templatePath))
	}

	// =========================================================================
	// STEP 2: READ INPUT
	// =========================================================================

	rows, err := xlsxparser.ReadAdjustments(c.templatePath)
	if err != nil {
		return result, fmt.Errorf("failed to read input: %w", err)
	}
	result.Stats.RowsRead = len(rows)
	c.logger.Debug("Read input rows", zap.Int("rows", len(rows)))

	if len(rows) == 0 {
		return result, ErrNoData
	}

	// =========================================================================
	// STEP 3: VALIDATE
	// =========================================================================

	if errs := validation.ValidateAdjustmentTypes(rows); len(errs) > 0 {
		result.ValidationErrors = errs
		for _, ve := range errs {
			c.logger.Warn("Validation error", zap.String("detail", ve.Error()))
		}
		return result, fmt.Errorf("%w: %s", ErrInvalidTemplate, validation.Summarize(errs, 5))
	}

	batches, err := groupBatches(rows)
	if err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 4: CLEAR OUTPUT DIRECTORY
	// =========================================================================

	if _, err := c.files.EnsureDirectories(); err != nil {
		return result, err
	}
	removed, err := c.files.ClearOutputDir()
	result.Stats.FilesRemoved = removed
	if err != nil {
		return result, err
	}
	c.logger.Debug("Cleared output directory", zap.Int("removed", removed))

	// =========================================================================
	// STEP 5: WRITE OUTPUT FILES
	// =========================================================================

	for _, batch := range batches {
		outputPath := filepath.Join(c.files.OutputDir, batch.FileName())
		if err := xlsxwriter.WriteBatch(outputPath, batch); err != nil {
			return result, err
		}

		result.OutputFiles = append(result.OutputFiles, outputPath)
		if batch.Key.Type == types.Outbound {
			result.Stats.OutboundFiles++
		} else {
			result.Stats.InboundFiles++
		}
		c.logger.Info("Created output file",
			zap.String("file", batch.FileName()),
			zap.Int("rows", len(batch.Rows)))
	}

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// groupBatches groups validated rows into output batches.
//
// GROUPING LOGIC:
//   Batches are emitted per adjustment type in types.AdjustmentTypes order
//   (outbound first). Within a type, distributors appear in order of first
//   occurrence and rows keep their input order.
//
// RETURNS:
//   - The batches.
//   - An error if two distributor codes map to the same file name.
func groupBatches(rows []types.AdjustmentRow) ([]*types.OutputBatch, error) {
	var batches []*types.OutputBatch
	seenFiles := make(map[string]string)

	for _, adjType := range types.AdjustmentTypes {
		groups := make(map[string]*types.OutputBatch)

		for _, row := range rows {
			if row.AdjustmentType != adjType {
				continue
			}

			code := row.DistributorCode.Raw
			batch, exists := groups[code]
			if !exists {
				batch = &types.OutputBatch{
					Key:             types.BatchKey{Type: adjType, DistributorCode: code},
					DistributorCode: row.DistributorCode,
				}
				groups[code] = batch
				batches = append(batches, batch)

				name := batch.FileName()
				if other, clash := seenFiles[name]; clash {
					return nil, fmt.Errorf("distributor codes %q and %q both map to file %s", other, code, name)
				}
				seenFiles[name] = code
			}
			batch.Rows = append(batch.Rows, row)
		}
	}

	return batches, nil
}
