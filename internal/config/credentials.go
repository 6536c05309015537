package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// =============================================================================
// CREDENTIALS RECORD
// =============================================================================

// Environment variables that override the credentials file at read time.
const (
	EnvUsername = "STOCKADJ_USERNAME"
	EnvPassword = "STOCKADJ_PASSWORD"
	EnvLink     = "STOCKADJ_LINK"
)

// ErrCredentialsMissing is returned when the credentials file does not exist.
var ErrCredentialsMissing = errors.New("credentials file does not exist")

// Credentials is the record the upload stage logs in with. The JSON layout
// is a fixed external format: users edit this file by hand.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	ToolName string `json:"tool_name"`
	Link     string `json:"link"`
}

// DefaultCredentials returns the placeholder record written on first run.
func DefaultCredentials() Credentials {
	return Credentials{
		Username: "admin",
		Password: "123456",
		ToolName: "Tool All In One",
		Link:     "https://example.com/login",
	}
}

// EnsureCredentials writes the default record to path if no file exists.
// An existing file is never modified.
//
// RETURNS:
//   - true if the file was created by this call.
//   - An error if the file cannot be checked or written.
func EnsureCredentials(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to check credentials file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultCredentials(), "", "    ")
	if err != nil {
		return false, fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return false, fmt.Errorf("failed to write credentials file: %w", err)
	}

	return true, nil
}

// LoadCredentials reads the record at path and applies environment overrides.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCredentialsMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	applyEnvOverrides(&creds)
	return &creds, nil
}

// applyEnvOverrides replaces credential fields with non-empty environment values.
func applyEnvOverrides(creds *Credentials) {
	if v := os.Getenv(EnvUsername); v != "" {
		creds.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		creds.Password = v
	}
	if v := os.Getenv(EnvLink); v != "" {
		creds.Link = v
	}
}

// LoadDotEnv loads a .env file from baseDir into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(baseDir string) error {
	path := filepath.Join(baseDir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
