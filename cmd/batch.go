// =============================================================================
// Order Consolidator - Batch Processing
// =============================================================================
//
// This file holds the file loop shared by the 'consolidate' and 'invoice'
// commands.
//
// PROCESSING PIPELINE:
//   1. Use the files given on the command line, or discover spreadsheets in
//      the input directory when none are given
//   2. Process each file concurrently, at most max_concurrency at a time
//   3. Collect results; a failed file never stops the others
//   4. Print a summary report
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/donghyeon/takkobebe/internal/converter"
	"github.com/donghyeon/takkobebe/pkg/utils"
)

// fileProcessor runs one pipeline on one file.
type fileProcessor func(path string) converter.Result

// batchSummary counts the outcome of a batch.
type batchSummary struct {
	Total      int
	Successful int
	Failed     int
	Elapsed    time.Duration
}

// resolveInputs returns args, or the spreadsheets found in the input
// directory when args is empty.
func resolveInputs(fm *utils.FileManager, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := fm.DiscoverInputFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}
	return files, nil
}

// processFiles runs process over files with at most limit files in
// flight. Results are returned in the order of files.
func processFiles(ctx context.Context, files []string, limit int, process fileProcessor) []converter.Result {
	results := make([]converter.Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = converter.Result{FilePath: file, Error: err}
				return nil
			}
			results[i] = process(file)
			// Per-file failures are reported in the result, never returned,
			// so the remaining files keep running.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// runBatch processes every input with process and prints a report to w.
// It returns an error when at least one file failed.
func runBatch(ctx context.Context, w io.Writer, title string, args []string, process func(*converter.Converter) fileProcessor) error {
	startTime := time.Now()

	fm := newFileManager()
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	fmt.Fprintf(w, "=== %s ===\n", title)

	files, err := resolveInputs(fm, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(w, "No spreadsheets found in the input directory.")
		return nil
	}
	fmt.Fprintf(w, "Found %d file(s) to process\n", len(files))

	results := processFiles(ctx, files, cfg.MaxConcurrency, process(newConverter(fm)))

	summary := batchSummary{Total: len(files)}
	for _, result := range results {
		if result.Success {
			summary.Successful++
			fmt.Fprintf(w, "  ✓ %s -> %s\n", filepath.Base(result.FilePath), result.OutputFile)
			continue
		}
		summary.Failed++
		fmt.Fprintf(w, "  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
		logger.Error("file failed", zap.String("file", result.FilePath), zap.Error(result.Error))
	}
	summary.Elapsed = time.Since(startTime)

	printSummary(w, summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.Failed, summary.Total)
	}
	return nil
}

func printSummary(w io.Writer, s batchSummary) {
	fmt.Fprintln(w, "\n=== Processing Complete ===")
	fmt.Fprintf(w, "Total files:     %d\n", s.Total)
	fmt.Fprintf(w, "Successful:      %d\n", s.Successful)
	fmt.Fprintf(w, "Errors:          %d\n", s.Failed)
	fmt.Fprintf(w, "Time elapsed:    %s\n", s.Elapsed)
}
