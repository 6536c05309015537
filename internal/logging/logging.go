// Package logging builds the zap logger shared by every command.
//
// Two sinks are teed together: a console core on stderr for operator
// feedback and a file core that only receives error-level entries, producing
// the timestamped error log consulted after a failed run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is the console level: debug, info, warn or error.
	Level string

	// Verbose forces the console level to debug.
	Verbose bool

	// ErrorLogPath is the file receiving error-level entries. Empty disables
	// the file sink.
	ErrorLogPath string

	// Console overrides stderr as the console sink. Used by tests.
	Console io.Writer
}

// New returns a logger and a close function that flushes and releases the
// error log file.
func New(opts Options) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.AddSync(console), level),
	}

	var file *os.File
	if opts.ErrorLogPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.ErrorLogPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err = os.OpenFile(opts.ErrorLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open error log: %w", err)
		}

		fileEnc := zap.NewProductionEncoderConfig()
		fileEnc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05,000")
		fileEnc.EncodeLevel = zapcore.CapitalLevelEncoder
		fileEnc.StacktraceKey = "stacktrace"
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(fileEnc), zapcore.AddSync(file), zapcore.ErrorLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))

	closeFn := func() error {
		_ = logger.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}
