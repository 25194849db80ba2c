// =============================================================================
// Order Tally - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the commands:
//   - Directory management
//   - Input archival (copying processed exports)
//   - Output file naming
//   - Import summary logs
//
// ARCHIVAL STRATEGY:
//   - Input exports are copied to the archive directory after a successful
//     import when archive_inputs is enabled. The original is left in place.
//   - Failed imports are never archived.
//   - Summary logs are created in the output directory.
//
// CUSTOMIZATION:
//   - Set archive_date_subdirs for date-based archive subdirectories
//   - Add placeholders to GenerateOutputFileName through params
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the commands.
type FileManager struct {
	// OutputDir is the directory where generated reports are placed.
	OutputDir string

	// ArchiveDir is the directory for archived input exports.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2024/01/15/orders_export.csv
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether inputs are archived after a
	// successful import.
	ArchiveOnSuccess bool

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
//
// PARAMETERS:
//   - outputDir: Where generated reports and summary logs go.
//   - archiveDir: Where input exports are copied.
//   - archiveOnSuccess: Whether inputs are archived at all.
//   - dateSubdirs: File archived inputs under YYYY/MM/DD.
func NewFileManager(outputDir, archiveDir string, archiveOnSuccess, dateSubdirs bool) *FileManager {
	return &FileManager{
		OutputDir:           outputDir,
		ArchiveDir:          archiveDir,
		UseTimestampSubdirs: dateSubdirs,
		ArchiveOnSuccess:    archiveOnSuccess,
		now:                 time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.OutputDir}
	if fm.ArchiveOnSuccess {
		dirs = append(dirs, fm.ArchiveDir)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return eris.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	return nil
}

// OutputPath joins a file name onto the output directory.
func (fm *FileManager) OutputPath(name string) string {
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile copies an input export to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived copy, or "" when archiving is disabled.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return "", nil
	}

	archivePath := fm.getArchivePath(filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", eris.Wrap(err, "failed to create archive directory")
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", eris.Wrapf(err, "failed to copy %s to archive", filePath)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		now := fm.clock()
		return filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
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
//     {time}      - Current time (HHMMSS)
//     {kind}      - Report kind (pivot, earnings)
//     {original}  - Input file name (without extension)
//   - ext: The extension to enforce, with or without the leading dot.
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//
//	format: "{kind}_{timestamp}_{uuid}"
//	params: {"kind": "pivot"}
//	output: "pivot_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.csv"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
			result += ext
		}
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// IMPORT SUMMARY
// =============================================================================

// ImportSummary contains summary information about one command run.
type ImportSummary struct {
	Command     string
	StartTime   time.Time
	EndTime     time.Time
	InputFile   string
	OutputFile  string
	ArchivePath string
	Rows        int
	LineItems   int
	Dropped     int
	Uncounted   int
	Orders      int
	GrandTotal  int
	Warnings    []string
}

// WriteSummaryLog writes an import summary to a log file.
//
// PARAMETERS:
//   - summary: The import summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ImportSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("import_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", eris.Wrap(err, "failed to create summary file")
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Order Tally - Import Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Command:        %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Files:\n"+
		"  Input:          %s\n"+
		"  Output:         %s\n",
		summary.Command,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.InputFile,
		orDash(summary.OutputFile))
	if summary.ArchivePath != "" {
		fmt.Fprintf(writer, "  Archived As:    %s\n", summary.ArchivePath)
	}

	fmt.Fprintf(writer, "\nStatistics:\n"+
		"  Rows:           %d\n"+
		"  Line Items:     %d\n"+
		"  Dropped Rows:   %d\n"+
		"  Uncounted:      %d\n"+
		"  Orders:         %d\n"+
		"  Grand Total:    %d\n\n",
		summary.Rows,
		summary.LineItems,
		summary.Dropped,
		summary.Uncounted,
		summary.Orders,
		summary.GrandTotal)

	if len(summary.Warnings) > 0 {
		writer.WriteString("Warnings:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", eris.Wrap(err, "failed to flush summary file")
	}

	return summaryPath, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
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

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
