// =============================================================================
// Order Consolidator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities, including:
//   - Directory management
//   - Input file discovery
//   - Upload storage for the HTTP server
//   - Input archival after successful processing
//   - Output file naming
//
// UPLOAD STORAGE:
//   Every upload is written under UploadDir with a fresh UUID name, so two
//   requests never share a file. The caller removes the file when done.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SpreadsheetExtensions are the file extensions DiscoverInputFiles picks
// up by default.
var SpreadsheetExtensions = []string{".xlsx", ".xls", ".html", ".htm", ".csv"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the CLI and the server.
type FileManager struct {
	// InputDir is the directory where exports are dropped.
	InputDir string

	// OutputDir is the directory where generated workbooks are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived input files.
	InputArchiveDir string

	// UploadDir is the directory for in-flight uploads.
	UploadDir string

	// ArchiveOnSuccess determines whether to archive inputs after
	// successful processing.
	ArchiveOnSuccess bool

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, uploadDir string) *FileManager {
	return &FileManager{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
		UploadDir:       uploadDir,
		now:             time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.OutputDir,
		fm.UploadDir,
	}
	if fm.ArchiveOnSuccess {
		dirs = append(dirs, fm.InputArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files directly under InputDir whose
// extension is one of exts (case-insensitive). With no exts,
// SpreadsheetExtensions is used. The result is sorted by name.
func (fm *FileManager) DiscoverInputFiles(exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = SpreadsheetExtensions
	}

	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				files = append(files, filepath.Join(fm.InputDir, entry.Name()))
				break
			}
		}
	}

	return files, nil
}

// =============================================================================
// UPLOAD STORAGE
// =============================================================================

// SaveUpload copies r to a new file under UploadDir and returns its path.
// The original file name only contributes its extension.
func (fm *FileManager) SaveUpload(r io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(fm.UploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(fm.UploadDir, uuid.New().String()+strings.ToLower(filepath.Ext(originalName)))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return path, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory. When
// archiving is disabled the path is returned unchanged.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))

	// Move the file.
	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {kind}      - "combined" or "invoice"
//     {original}  - Input file name without extension
//   - params: Values for {kind}, {original} and any custom placeholder.
//
// EXAMPLE:
//   format: "{kind}_{timestamp}_{uuid}.xlsx"
//   params: {"kind": "combined"}
//   output: "combined_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func (fm *FileManager) GenerateOutputFileName(format string, params map[string]string) string {
	now := fm.now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}

	return result
}

// OutputPath returns a fresh path under OutputDir for an output of kind
// derived from inputPath.
func (fm *FileManager) OutputPath(format, kind, inputPath string) string {
	original := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := fm.GenerateOutputFileName(format, map[string]string{
		"kind":     kind,
		"original": original,
	})
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}
