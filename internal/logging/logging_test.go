package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_ErrorLogOnlyReceivesErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "error.log")
	var console bytes.Buffer

	logger, closeFn, err := New(Options{Level: "info", ErrorLogPath: path, Console: &console})
	require.NoError(t, err)

	logger.Info("transform finished", zap.Int("files", 2))
	logger.Error("menu action failed", zap.Error(errors.New("boom")))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "ERROR")
	assert.Contains(t, text, "menu action failed")
	assert.Contains(t, text, "boom")
	assert.NotContains(t, text, "transform finished")

	assert.Contains(t, console.String(), "transform finished")
	assert.Contains(t, console.String(), "menu action failed")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var console bytes.Buffer

	logger, closeFn, err := New(Options{Level: "info", Verbose: true, Console: &console})
	require.NoError(t, err)
	logger.Debug("locator resolved")
	require.NoError(t, closeFn())

	assert.Contains(t, console.String(), "locator resolved")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var console bytes.Buffer

	logger, closeFn, err := New(Options{Level: "chatty", Console: &console})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, closeFn())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}
