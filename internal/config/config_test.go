package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMainConfig_CreatesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadMainConfig(dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, SettingsFileName))
	assert.Equal(t, filepath.Join(dir, "stock_adjustment", "input", "template.xlsx"), cfg.TemplatePath())
	assert.Equal(t, filepath.Join(dir, "stock_adjustment", "output"), cfg.OutputPath())
	assert.Equal(t, filepath.Join(dir, "stock_adjustment", "config.json"), cfg.CredentialsPath())
	assert.Equal(t, filepath.Join(dir, "error.log"), cfg.ErrorLogPath())
	assert.Equal(t, 30*time.Second, cfg.Browser.ElementTimeout())
	assert.Equal(t, time.Second, cfg.Browser.AfterLogin())
	assert.Equal(t, 2*time.Second, cfg.Browser.BeforeConfirm())
	assert.Equal(t, 3*time.Second, cfg.Browser.BeforeResult())
	assert.False(t, cfg.Browser.Headless)

	// A second load reads the file that was just written.
	again, err := LoadMainConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Locators, again.Locators)
	assert.Equal(t, cfg.Browser, again.Browser)
}

func TestLoadMainConfig_MergesLocators(t *testing.T) {
	dir := t.TempDir()
	yamlText := `
work_dir: data
browser:
  headless: true
  after_login_ms: 250
locators:
  username: "#user"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(yamlText), 0644))

	cfg, err := LoadMainConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.Browser.AfterLogin())
	assert.Equal(t, filepath.Join(dir, "data", "output"), cfg.OutputPath())
	assert.Equal(t, "#user", cfg.Locators[LocUsername])
	assert.Equal(t, DefaultLocators()[LocPassword], cfg.Locators[LocPassword])
}

func TestLoadMainConfig_RejectsUnknownLocator(t *testing.T) {
	dir := t.TempDir()
	yamlText := "locators:\n  launch_rocket: \"#go\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(yamlText), 0644))

	_, err := LoadMainConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch_rocket")
}

func TestLoadMainConfig_RejectsEmptyRequiredLocator(t *testing.T) {
	dir := t.TempDir()
	yamlText := "locators:\n  file_input: \"\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(yamlText), 0644))

	_, err := LoadMainConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_input")
}

func TestLocators_Get(t *testing.T) {
	l := DefaultLocators()

	sel, err := l.Get(LocFileInput)
	require.NoError(t, err)
	assert.Equal(t, `//*[@id="excelFileStockUpdate"]`, sel)

	_, err = l.Get(LocLoginSuccess)
	assert.Error(t, err)
}

func TestIsXPath(t *testing.T) {
	assert.True(t, IsXPath(`//p[@id='x']`))
	assert.True(t, IsXPath(`(//button)[1]`))
	assert.False(t, IsXPath(`#username`))
	assert.False(t, IsXPath(`div.messager-window`))
}

func TestEnsureCredentials_CreatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work", "config.json")

	created, err := EnsureCredentials(path)
	require.NoError(t, err)
	assert.True(t, created)

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(first, &raw))
	assert.Equal(t, map[string]string{
		"username":  "admin",
		"password":  "123456",
		"tool_name": "Tool All In One",
		"link":      "https://example.com/login",
	}, raw)

	created, err = EnsureCredentials(path)
	require.NoError(t, err)
	assert.False(t, created)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureCredentials_LeavesEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	edited := []byte(`{"username":"ops","password":"s3cret","tool_name":"x","link":"https://inv.local"}`)
	require.NoError(t, os.WriteFile(path, edited, 0600))

	created, err := EnsureCredentials(path)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, data)
}

func TestLoadCredentials_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_, err := EnsureCredentials(path)
	require.NoError(t, err)

	t.Setenv(EnvPassword, "from-env")
	t.Setenv(EnvLink, "")

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.Username)
	assert.Equal(t, "from-env", creds.Password)
	assert.Equal(t, "https://example.com/login", creds.Link)
}

func TestLoadCredentials_Missing(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrCredentialsMissing)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	// No file is fine.
	require.NoError(t, LoadDotEnv(dir))

	t.Setenv(EnvUsername, "")
	os.Unsetenv(EnvUsername)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvUsername+"=dotenv-user\n"), 0600))
	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "dotenv-user", os.Getenv(EnvUsername))
}
