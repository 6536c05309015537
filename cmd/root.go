// =============================================================================
// Stock Adjustment Tool - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Run without a
// subcommand, it opens the interactive menu.
//
// COBRA CLI STRUCTURE:
//   rootCmd (stockadj)                 -> interactive menu
//   ├── createCmd (stockadj create)
//   ├── importCmd (stockadj import outbound|inbound)
//   └── versionCmd (stockadj version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--base-dir, --verbose)
//   2. Loading .env credential overrides from the base directory
//   3. Loading settings.yaml and building the logger
//   4. Cancelling the command context on Ctrl+C
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/app"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/config"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/logging"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/menu"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// baseDir holds settings.yaml, error.log and the work directory.
var baseDir string

// verbose enables debug logging on the console.
var verbose bool

// defaultTitle is shown when the credentials file has no tool name.
const defaultTitle = "Stock Adjustment Tool"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "stockadj",
	Short: "Stock Adjustment Tool - split adjustment sheets and upload them",
	Long: `Stock Adjustment Tool turns one spreadsheet of stock adjustments into
one import workbook per adjustment type and distributor, then uploads those
workbooks to the inventory site through a browser.

Run without a subcommand to open the interactive menu.

Example Usage:
  stockadj                      # Interactive menu
  stockadj create               # Build the output workbooks
  stockadj import outbound      # Upload DCG_* workbooks
  stockadj --base-dir D:\tools  # Use another base directory`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Errors already shown to the operator only
// set the exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !app.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&baseDir,
		"base-dir",
		".",
		"Directory holding settings.yaml, error.log and the work directory",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	cobra.OnInitialize(initEnv)
}

// initEnv loads <base-dir>/.env so credential overrides are visible to every
// command.
func initEnv() {
	if err := config.LoadDotEnv(baseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// bootstrap loads settings, builds the logger and prepares the work directory.
//
// RETURNS:
//   - The App shared by every action.
//   - A cleanup function that flushes the logger. Always non-nil.
//   - An error if settings or logging cannot be initialized.
func bootstrap(cmd *cobra.Command) (*app.App, func(), error) {
	noop := func() {}

	cfg, err := config.LoadMainConfig(baseDir)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to load settings: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:        cfg.LogLevel,
		Verbose:      verbose,
		ErrorLogPath: cfg.ErrorLogPath(),
	})
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() { _ = closeLog() }

	a := app.New(cfg, cmd.OutOrStdout(), logger)
	if err := a.Setup(); err != nil {
		logger.Error("Setup failed", zap.Error(err))
		cleanup()
		return nil, noop, err
	}

	logger.Debug("Loaded settings",
		zap.String("base_dir", cfg.BaseDir()),
		zap.String("work_dir", cfg.WorkPath()))
	return a, cleanup, nil
}

// runMenu opens the interactive menu.
func runMenu(cmd *cobra.Command) error {
	a, cleanup, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	title := defaultTitle
	if creds, err := config.LoadCredentials(a.Config().CredentialsPath()); err == nil && creds.ToolName != "" {
		title = creds.ToolName
	}

	m := menu.New(menu.Config{
		Title: title,
		In:    cmd.InOrStdin(),
		Out:   cmd.OutOrStdout(),
		Options: []menu.Option{
			{Key: "1", Label: "Create files", Run: a.CreateFiles},
			{Key: "2", Label: "Import outbound (DCG) files", Run: func(ctx context.Context) error {
				return a.Import(ctx, types.Outbound)
			}},
			{Key: "3", Label: "Import inbound (DCT) files", Run: func(ctx context.Context) error {
				return a.Import(ctx, types.Inbound)
			}},
		},
		IsReported: app.IsReported,
		Logger:     a.Logger().Named("menu"),
	})
	return m.Run(cmd.Context())
}
