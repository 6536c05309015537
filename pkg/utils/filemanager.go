// =============================================================================
// Stock Adjustment Tool - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the tool, including:
//   - Directory management
//   - Clearing the output directory before a transform run
//   - Output file discovery for the upload stage
//   - Upload report generation
//
// OUTPUT LIFECYCLE:
//   - Output files are deleted and regenerated on every transform run
//   - The upload stage reads output files and leaves them in place
//   - Upload reports accumulate in the reports directory
//
// =============================================================================

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/jszwec/csvutil"
)

// OutputExtension is the extension of generated workbooks.
const OutputExtension = ".xlsx"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the tool.
type FileManager struct {
	// WorkDir holds the other directories and the credentials file.
	WorkDir string

	// InputDir is the directory holding the input template.
	InputDir string

	// OutputDir is the directory where generated workbooks are placed.
	OutputDir string

	// ReportsDir is the directory for upload reports.
	ReportsDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(workDir, inputDir, outputDir, reportsDir string) *FileManager {
	return &FileManager{
		WorkDir:    workDir,
		InputDir:   inputDir,
		OutputDir:  outputDir,
		ReportsDir: reportsDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
//
// RETURNS:
//   - The directories that were created by this call.
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() ([]string, error) {
	dirs := []string{
		fm.WorkDir,
		fm.InputDir,
		fm.OutputDir,
		fm.ReportsDir,
	}

	var created []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return created, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		created = append(created, dir)
	}

	return created, nil
}

// ClearOutputDir deletes every regular file in the output directory.
// Subdirectories are left alone.
//
// RETURNS:
//   - The number of files removed.
//   - An error naming the first file that could not be removed.
func (fm *FileManager) ClearOutputDir() (int, error) {
	entries, err := os.ReadDir(fm.OutputDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(fm.OutputDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}

	return removed, nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverOutputFiles lists the output workbooks whose name starts with
// prefix, sorted lexicographically by path.
//
// PARAMETERS:
//   - prefix: A file name prefix such as "DCG" or "DCT".
//
// RETURNS:
//   - A slice of absolute file paths.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverOutputFiles(prefix string) ([]string, error) {
	entries, err := os.ReadDir(fm.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan output directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, OutputExtension) {
			continue
		}
		path, err := filepath.Abs(filepath.Join(fm.OutputDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// UPLOAD REPORT
// =============================================================================

// WriteUploadReport writes one CSV row per upload result into the reports
// directory.
//
// PARAMETERS:
//   - prefix: The prefix that was uploaded; part of the report name.
//   - results: The per-file outcomes, in upload order.
//   - now: The timestamp embedded in the report name.
//
// RETURNS:
//   - The path to the report, or "" when there is nothing to write.
//   - An error if writing fails.
func (fm *FileManager) WriteUploadReport(prefix string, results []types.UploadResult, now time.Time) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(fm.ReportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := csvutil.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode upload report: %w", err)
	}

	name := fmt.Sprintf("upload_%s_%s.csv", prefix, now.Format("20060102_150405"))
	path := filepath.Join(fm.ReportsDir, name)

	// Excel opens UTF-8 CSV correctly only with a BOM.
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	buf.Write(data)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write upload report: %w", err)
	}

	return path, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
