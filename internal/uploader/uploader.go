// =============================================================================
// Stock Adjustment Tool - Upload Stage
// =============================================================================
//
// This module uploads the generated workbooks of one adjustment type to the
// inventory site.
//
// UPLOAD PIPELINE:
//   1. Discover {PREFIX}*.xlsx files in the output directory (sorted)
//   2. Load the credentials record
//   3. Launch the browser (closed on every return path)
//   4. Log in once
//   5. For each file, run the fixed import sequence and read the result
//   6. Write the upload report
//
// FAILURE SEMANTICS:
//   The first failing step aborts the remaining files. Nothing is retried.
//
// =============================================================================

package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/config"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/ginjaninja78/stock-adjustment-tool/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUploadAborted wraps the error that stopped an upload run. It has
// already been logged and printed when it is returned.
var ErrUploadAborted = errors.New("upload aborted")

// =============================================================================
// SUMMARY STRUCTURE
// =============================================================================

// Summary describes one upload run.
type Summary struct {
	// RunID identifies the run in the upload report.
	RunID string

	// Prefix is the file prefix that was uploaded (DCG or DCT).
	Prefix string

	// Files are the discovered files, in upload order.
	Files []string

	// Results holds one entry per attempted file.
	Results []types.UploadResult

	// ReportPath is the written upload report, if any.
	ReportPath string

	// BrowserLaunched is false when the run ended before a browser was needed.
	BrowserLaunched bool
}

// =============================================================================
// UPLOADER STRUCTURE
// =============================================================================

// Uploader runs the upload stage.
type Uploader struct {
	cfg       *config.MainConfig
	files     *utils.FileManager
	out       io.Writer
	logger    *zap.Logger
	newDriver DriverFactory
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
}

// New creates an Uploader that drives Chromium through go-rod.
//
// PARAMETERS:
//   - cfg: Settings providing the browser options, locators and paths.
//   - files: The file manager owning the output and reports directories.
//   - out: Receives the per-file progress lines.
//   - logger: The logger; nil disables logging.
func New(cfg *config.MainConfig, files *utils.FileManager, out io.Writer, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Uploader{
		cfg:       cfg,
		files:     files,
		out:       out,
		logger:    logger,
		newDriver: NewRodDriver,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Upload uploads every output file of the given adjustment type.
//
// RETURNS:
//   - A Summary of the run. It is never nil.
//   - An error wrapping ErrUploadAborted if a file failed; any other error
//     means the run could not start.
func (u *Uploader) Upload(ctx context.Context, adjType types.AdjustmentType) (*Summary, error) {
	prefix := adjType.Prefix()
	summary := &Summary{RunID: uuid.NewString(), Prefix: prefix}

	// =========================================================================
	// STEP 1: DISCOVER FILES
	// =========================================================================

	files, err := u.files.DiscoverOutputFiles(prefix)
	if err != nil {
		return summary, err
	}
	summary.Files = files

	if len(files) == 0 {
		fmt.Fprintf(u.out, "No %s files found in %s\n", prefix, u.files.OutputDir)
		return summary, nil
	}

	// =========================================================================
	// STEP 2: LOAD CREDENTIALS
	// =========================================================================

	creds, err := config.LoadCredentials(u.cfg.CredentialsPath())
	if err != nil {
		return summary, err
	}
	link := strings.TrimSpace(creds.Link)
	if link == "" {
		fmt.Fprintf(u.out, "No link configured in %s\n", u.cfg.CredentialsPath())
		return summary, nil
	}

	// =========================================================================
	// STEP 3: LAUNCH BROWSER
	// =========================================================================

	driver, err := u.newDriver(ctx, u.cfg.Browser)
	if err != nil {
		return summary, err
	}
	summary.BrowserLaunched = true
	defer func() {
		if cerr := driver.Close(); cerr != nil {
			u.logger.Warn("Failed to close browser", zap.Error(cerr))
		}
	}()

	u.logger.Info("Starting upload",
		zap.String("run_id", summary.RunID),
		zap.String("prefix", prefix),
		zap.Int("files", len(files)))

	// =========================================================================
	// STEP 4-5: LOGIN AND UPLOAD
	// =========================================================================

	runErr := u.login(ctx, driver, creds, link)
	if runErr == nil {
		for _, path := range files {
			result := types.UploadResult{
				RunID: summary.RunID,
				File:  filepath.Base(path),
			}

			message, err := u.uploadFile(ctx, driver, link, path)
			result.UploadedAt = u.now()
			if err != nil {
				result.Error = err.Error()
				summary.Results = append(summary.Results, result)
				runErr = fmt.Errorf("%s: %w", result.File, err)
				break
			}

			result.Message = message
			summary.Results = append(summary.Results, result)
			fmt.Fprintf(u.out, "- Result: %s - %s\n", result.File, message)
			u.logger.Debug("Uploaded file", zap.String("file", result.File), zap.String("message", message))
		}
	}

	if runErr != nil {
		u.logger.Error("Upload aborted",
			zap.String("run_id", summary.RunID),
			zap.String("prefix", prefix),
			zap.Error(runErr))
		fmt.Fprintf(u.out, "Error during upload: %v\n", runErr)
	}

	// =========================================================================
	// STEP 6: WRITE REPORT
	// =========================================================================

	reportPath, err := u.files.WriteUploadReport(prefix, summary.Results, u.now())
	if err != nil {
		u.logger.Warn("Failed to write upload report", zap.Error(err))
	}
	summary.ReportPath = reportPath

	if runErr != nil {
		return summary, fmt.Errorf("%w: %v", ErrUploadAborted, runErr)
	}
	return summary, nil
}

// =============================================================================
// UPLOAD SEQUENCE
// =============================================================================

// login signs in once per run.
func (u *Uploader) login(ctx context.Context, d Driver, creds *config.Credentials, link string) error {
	loc := u.cfg.Locators

	if err := d.Navigate(ctx, link); err != nil {
		return err
	}
	if err := fillLocator(ctx, d, loc, config.LocUsername, creds.Username); err != nil {
		return err
	}
	if err := fillLocator(ctx, d, loc, config.LocPassword, creds.Password); err != nil {
		return err
	}
	if err := clickLocator(ctx, d, loc, config.LocLoginButton); err != nil {
		return err
	}
	if err := u.sleep(ctx, u.cfg.Browser.AfterLogin()); err != nil {
		return err
	}

	if selector := strings.TrimSpace(loc[config.LocLoginSuccess]); selector != "" {
		if err := d.WaitVisible(ctx, selector); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}
	return nil
}

// uploadFile runs the import sequence for one file and returns the site's
// result message.
func (u *Uploader) uploadFile(ctx context.Context, d Driver, link, path string) (string, error) {
	loc := u.cfg.Locators

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if err := d.Navigate(ctx, link); err != nil {
		return "", err
	}
	for _, name := range []string{config.LocMenuLevel1, config.LocMenuLevel2, config.LocMenuLevel3, config.LocOpenUpload} {
		if err := clickLocator(ctx, d, loc, name); err != nil {
			return "", err
		}
	}

	fileInput, err := loc.Get(config.LocFileInput)
	if err != nil {
		return "", err
	}
	if err := d.WaitPresent(ctx, fileInput); err != nil {
		return "", err
	}
	if err := d.SetFiles(ctx, fileInput, []string{absPath}); err != nil {
		return "", err
	}

	if err := clickLocator(ctx, d, loc, config.LocSubmitUpload); err != nil {
		return "", err
	}

	dialog, err := loc.Get(config.LocConfirmDialog)
	if err != nil {
		return "", err
	}
	if err := d.WaitVisible(ctx, dialog); err != nil {
		return "", err
	}
	if err := u.sleep(ctx, u.cfg.Browser.BeforeConfirm()); err != nil {
		return "", err
	}
	if err := clickLocator(ctx, d, loc, config.LocConfirmButton); err != nil {
		return "", err
	}
	if err := u.sleep(ctx, u.cfg.Browser.BeforeResult()); err != nil {
		return "", err
	}

	resultSel, err := loc.Get(config.LocResultMessage)
	if err != nil {
		return "", err
	}
	message, err := d.Text(ctx, resultSel)
	if err != nil {
		return "", err
	}

	// Reset the page for the next file.
	if err := d.Navigate(ctx, link); err != nil {
		return "", err
	}
	return strings.TrimSpace(message), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func clickLocator(ctx context.Context, d Driver, loc config.Locators, name string) error {
	selector, err := loc.Get(name)
	if err != nil {
		return err
	}
	return d.Click(ctx, selector)
}

func fillLocator(ctx context.Context, d Driver, loc config.Locators, name, value string) error {
	selector, err := loc.Get(name)
	if err != nil {
		return err
	}
	return d.Fill(ctx, selector, value)
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
