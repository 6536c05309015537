// =============================================================================
// Stock Adjustment Tool - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration files.
// It handles both the application settings and the credentials record used by
// the upload stage.
//
// CONFIGURATION FILES:
//   1. Settings (settings.yaml): directories, browser, waits, locator map
//   2. Credentials (stock_adjustment/config.json): username, password,
//      tool_name, link
//
// Both files are created with defaults on first run and never rewritten
// afterwards; edits are made by hand.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the name of the settings file inside the base directory.
const SettingsFileName = "settings.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application settings.
// This is loaded from settings.yaml in the base directory.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// WorkDir is the directory holding the input, output and report
	// directories and the credentials file. Relative paths are resolved
	// against the base directory.
	// Default: "stock_adjustment"
	WorkDir string `yaml:"work_dir"`

	// InputDir holds the input template. Relative to WorkDir.
	// Default: "input"
	InputDir string `yaml:"input_dir"`

	// OutputDir holds the generated workbooks. It is cleared on every
	// transform run. Relative to WorkDir.
	// Default: "output"
	OutputDir string `yaml:"output_dir"`

	// ReportsDir holds the CSV upload reports. Relative to WorkDir.
	// Default: "reports"
	ReportsDir string `yaml:"reports_dir"`

	// TemplateFile is the input spreadsheet name inside InputDir.
	// Default: "template.xlsx"
	TemplateFile string `yaml:"template_file"`

	// CredentialsFile is the credentials record name inside WorkDir.
	// Default: "config.json"
	CredentialsFile string `yaml:"credentials_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// ErrorLogFile receives unhandled top-level errors with stack traces.
	// Relative to the base directory.
	// Default: "error.log"
	ErrorLogFile string `yaml:"error_log_file"`

	// LogLevel controls console verbosity.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// BROWSER SETTINGS
	// =========================================================================

	Browser BrowserConfig `yaml:"browser"`

	// =========================================================================
	// LOCATORS
	// =========================================================================

	// Locators maps each UI capability to a selector on the target site.
	// Missing entries fall back to DefaultLocators.
	Locators Locators `yaml:"locators"`

	// baseDir is the directory the settings file was loaded from.
	baseDir string
}

// BrowserConfig controls how the upload stage drives the browser.
type BrowserConfig struct {
	// Bin is the path to a Chromium/Chrome executable. When empty, rod
	// downloads or reuses its own managed Chromium.
	Bin string `yaml:"bin"`

	// Headless runs the browser without a window.
	// Default: false
	Headless bool `yaml:"headless"`

	// ElementTimeoutMs bounds every element lookup and navigation.
	// Default: 30000
	ElementTimeoutMs int `yaml:"element_timeout_ms"`

	// AfterLoginMs is the fixed pause after clicking the login button.
	// Default: 1000
	AfterLoginMs int `yaml:"after_login_ms"`

	// BeforeConfirmMs is the fixed pause after the confirmation dialog
	// appears and before its confirm button is clicked.
	// Default: 2000
	BeforeConfirmMs int `yaml:"before_confirm_ms"`

	// BeforeResultMs is the fixed pause after confirming and before the
	// result message is read.
	// Default: 3000
	BeforeResultMs int `yaml:"before_result_ms"`
}

// ElementTimeout returns the element lookup timeout.
func (c BrowserConfig) ElementTimeout() time.Duration {
	return millis(c.ElementTimeoutMs)
}

// AfterLogin returns the pause after login.
func (c BrowserConfig) AfterLogin() time.Duration {
	return millis(c.AfterLoginMs)
}

// BeforeConfirm returns the pause before confirming the upload dialog.
func (c BrowserConfig) BeforeConfirm() time.Duration {
	return millis(c.BeforeConfirmMs)
}

// BeforeResult returns the pause before reading the result message.
func (c BrowserConfig) BeforeResult() time.Duration {
	return millis(c.BeforeResultMs)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// =============================================================================
// RESOLVED PATHS
// =============================================================================

// BaseDir returns the directory the configuration was loaded from.
func (c *MainConfig) BaseDir() string {
	return c.baseDir
}

// WorkPath returns the absolute work directory.
func (c *MainConfig) WorkPath() string {
	return c.resolve(c.baseDir, c.WorkDir)
}

// InputPath returns the absolute input directory.
func (c *MainConfig) InputPath() string {
	return c.resolve(c.WorkPath(), c.InputDir)
}

// OutputPath returns the absolute output directory.
func (c *MainConfig) OutputPath() string {
	return c.resolve(c.WorkPath(), c.OutputDir)
}

// ReportsPath returns the absolute reports directory.
func (c *MainConfig) ReportsPath() string {
	return c.resolve(c.WorkPath(), c.ReportsDir)
}

// TemplatePath returns the absolute path of the input spreadsheet.
func (c *MainConfig) TemplatePath() string {
	return filepath.Join(c.InputPath(), c.TemplateFile)
}

// CredentialsPath returns the absolute path of the credentials record.
func (c *MainConfig) CredentialsPath() string {
	return filepath.Join(c.WorkPath(), c.CredentialsFile)
}

// ErrorLogPath returns the absolute path of the error log.
func (c *MainConfig) ErrorLogPath() string {
	return c.resolve(c.baseDir, c.ErrorLogFile)
}

func (c *MainConfig) resolve(parent, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(parent, p)
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// DefaultMainConfig returns the settings used when no settings file exists.
func DefaultMainConfig() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads settings.yaml from baseDir, creating it with default
// values if it does not exist.
//
// PARAMETERS:
//   - baseDir: The directory holding settings.yaml and the work directory.
//
// RETURNS:
//   - A pointer to the MainConfig struct with every default applied.
//   - An error if the file cannot be read, parsed or created.
func LoadMainConfig(baseDir string) (*MainConfig, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	configPath := filepath.Join(absBase, SettingsFileName)

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		config := DefaultMainConfig()
		if err := writeMainConfig(configPath, config); err != nil {
			return nil, err
		}
		config.baseDir = absBase
		return config, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(&config)
	config.baseDir = absBase

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// writeMainConfig writes the settings file, creating its directory.
func writeMainConfig(configPath string, config *MainConfig) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config file: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.WorkDir == "" {
		config.WorkDir = "stock_adjustment"
	}
	if config.InputDir == "" {
		config.InputDir = "input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "output"
	}
	if config.ReportsDir == "" {
		config.ReportsDir = "reports"
	}
	if config.TemplateFile == "" {
		config.TemplateFile = "template.xlsx"
	}
	if config.CredentialsFile == "" {
		config.CredentialsFile = "config.json"
	}
	if config.ErrorLogFile == "" {
		config.ErrorLogFile = "error.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	// Browser defaults.
	if config.Browser.ElementTimeoutMs == 0 {
		config.Browser.ElementTimeoutMs = 30000
	}
	if config.Browser.AfterLoginMs == 0 {
		config.Browser.AfterLoginMs = 1000
	}
	if config.Browser.BeforeConfirmMs == 0 {
		config.Browser.BeforeConfirmMs = 2000
	}
	if config.Browser.BeforeResultMs == 0 {
		config.Browser.BeforeResultMs = 3000
	}

	config.Locators = config.Locators.withDefaults()
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	if config.Browser.ElementTimeoutMs < 0 ||
		config.Browser.AfterLoginMs < 0 ||
		config.Browser.BeforeConfirmMs < 0 ||
		config.Browser.BeforeResultMs < 0 {
		return fmt.Errorf("browser timings must not be negative")
	}

	return config.Locators.Validate()
}
