// =============================================================================
// Stock Adjustment Tool - Application Actions
// =============================================================================
//
// This module wires settings, the transform stage and the upload stage into
// the three actions offered by the menu and the CLI:
//
//   CreateFiles    - build one workbook per (adjustment type, distributor)
//   Import(type)   - upload the workbooks of one adjustment type
//
// Setup prepares the work directory and the credentials file before either
// action runs.
//
// REPORTED ERRORS:
//   Conditions the operator can fix (bad input, missing credentials, an
//   aborted upload) are printed here in red and returned unchanged.
//   IsReported tells callers not to report them a second time.
//
// =============================================================================

package app

import (
	"context"
	"errors"
	"io"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/config"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/console"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/converter"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/uploader"
	"github.com/ginjaninja78/stock-adjustment-tool/pkg/utils"
	"go.uber.org/zap"
)

// App holds everything an action needs.
type App struct {
	cfg       *config.MainConfig
	files     *utils.FileManager
	converter *converter.Converter
	uploader  *uploader.Uploader
	out       io.Writer
	logger    *zap.Logger
}

// New creates an App from loaded settings.
//
// PARAMETERS:
//   - cfg: The loaded settings.
//   - out: Receives operator messages.
//   - logger: The logger; nil disables logging.
func New(cfg *config.MainConfig, out io.Writer, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	files := utils.NewFileManager(cfg.WorkPath(), cfg.InputPath(), cfg.OutputPath(), cfg.ReportsPath())
	return &App{
		cfg:       cfg,
		files:     files,
		converter: converter.New(cfg.TemplatePath(), files, logger.Named("converter")),
		uploader:  uploader.New(cfg, files, out, logger.Named("uploader")),
		out:       out,
		logger:    logger,
	}
}

// Config returns the settings the App was built from.
func (a *App) Config() *config.MainConfig {
	return a.cfg
}

// Logger returns the App's logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// IsReported reports whether err has already been shown to the operator.
func IsReported(err error) bool {
	return errors.Is(err, converter.ErrInvalidTemplate) ||
		errors.Is(err, converter.ErrNoData) ||
		errors.Is(err, config.ErrCredentialsMissing) ||
		errors.Is(err, uploader.ErrUploadAborted)
}

// =============================================================================
// SETUP
// =============================================================================

// Setup creates the work directories and the default credentials file.
// Existing files are left as they are.
func (a *App) Setup() error {
	created, err := a.files.EnsureDirectories()
	if err != nil {
		return err
	}
	for _, dir := range created {
		console.Successf(a.out, "Created directory: %s", dir)
	}

	credsCreated, err := config.EnsureCredentials(a.cfg.CredentialsPath())
	if err != nil {
		return err
	}
	if credsCreated {
		console.Successf(a.out, "Created config file: %s", a.cfg.CredentialsPath())
	}
	return nil
}

// =============================================================================
// ACTIONS
// =============================================================================

// CreateFiles runs the transform stage and prints its outcome.
func (a *App) CreateFiles(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := a.converter.Run()
	if result.TemplateCreated {
		console.Noticef(a.out, "Template not found. Created template at: %s", result.TemplatePath)
	}

	switch {
	case errors.Is(err, converter.ErrNoData):
		console.Errorf(a.out, "No valid data in the template file.")
		return err
	case errors.Is(err, converter.ErrInvalidTemplate):
		console.Errorf(a.out, "Invalid template. Please check the 'Adjustment Type' column.")
		console.Errorf(a.out, "Only '%s' or '%s' are accepted.", types.Inbound, types.Outbound)
		for _, ve := range result.ValidationErrors {
			console.Errorf(a.out, "  %s", ve.Error())
		}
		return err
	case err != nil:
		return err
	}

	for _, path := range result.OutputFiles {
		console.Successf(a.out, "Created file: %s", path)
	}
	a.logger.Info("Transform complete",
		zap.Int("rows", result.Stats.RowsRead),
		zap.Int("outbound_files", result.Stats.OutboundFiles),
		zap.Int("inbound_files", result.Stats.InboundFiles),
		zap.Duration("elapsed", result.Stats.ProcessingTime))
	return nil
}

// Import uploads the output files of one adjustment type.
func (a *App) Import(ctx context.Context, adjType types.AdjustmentType) error {
	prefix := adjType.Prefix()
	console.Progressf(a.out, "Starting import of %s files...", prefix)

	summary, err := a.uploader.Upload(ctx, adjType)
	switch {
	case errors.Is(err, config.ErrCredentialsMissing):
		console.Errorf(a.out, "Config file does not exist: %s", a.cfg.CredentialsPath())
		return err
	case errors.Is(err, uploader.ErrUploadAborted):
		if summary.ReportPath != "" {
			console.Noticef(a.out, "Upload report: %s", summary.ReportPath)
		}
		return err
	case err != nil:
		return err
	}

	if summary.ReportPath != "" {
		console.Noticef(a.out, "Upload report: %s", summary.ReportPath)
	}
	console.Successf(a.out, "Finished import of %s files.", prefix)
	return nil
}
