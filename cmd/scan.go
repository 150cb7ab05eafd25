package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/baselinescan/baselinescan/analyzer"
	"github.com/baselinescan/baselinescan/baseline"
	"github.com/baselinescan/baselinescan/diagnostics"
	"github.com/baselinescan/baselinescan/guard"
	"github.com/baselinescan/baselinescan/report"
)

// languageIDs maps file extensions onto editor language ids.
var languageIDs = map[string]string{
	".css":    "css",
	".scss":   "scss",
	".less":   "less",
	".js":     "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".jsx":    "javascriptreact",
	".ts":     "typescript",
	".tsx":    "typescriptreact",
	".html":   "html",
	".htm":    "html",
	".vue":    "vue",
	".svelte": "svelte",
}

func newScanCmd() *cobra.Command {
	var (
		sarifPath string
		verbose   bool
		stats     bool
	)

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files or directories for web feature usage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := baseline.NewService(logger)
			if err := service.Initialize(); err != nil {
				return fmt.Errorf("%w: %v", diagnostics.ErrDataLoad, err)
			}

			reporter := diagnostics.NewReporter(logger)
			g := guard.New(logger, guard.Options{
				MaxConcurrent: appConfig.Analysis.MaxConcurrency,
				BaseTimeout:   time.Duration(appConfig.Analysis.TimeoutMS) * time.Millisecond,
				MaxTimeout:    time.Duration(appConfig.Analysis.MaxTimeoutMS) * time.Millisecond,
			})
			engine := analyzer.NewEngine(service, g, reporter, logger, analyzer.Options{
				MaxFileSize: appConfig.Analysis.MaxFileSizeKB * 1024,
				DisableCSS:  !appConfig.Analyzers.CSS,
				DisableJS:   !appConfig.Analyzers.JavaScript,
				DisableHTML: !appConfig.Analyzers.HTML,
			})

			files, err := collectFiles(args)
			if err != nil {
				return err
			}
			results := scanFiles(cmd.Context(), engine, files)

			report.WriteSummary(results, cmd.OutOrStdout(), verbose)
			if stats {
				printStats(cmd, reporter, service)
			}
			if sarifPath != "" {
				if err := writeSARIF(results, sarifPath); err != nil {
					return err
				}
				logger.Info("wrote SARIF report", "path", sarifPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sarifPath, "sarif", "", "write a SARIF report to this path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list widely-available features as well")
	cmd.Flags().BoolVar(&stats, "stats", false, "print dataset and error-counter statistics")
	return cmd
}

// collectFiles expands the argument paths into analyzable files, honoring
// the configured exclude patterns.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if excluded(fi.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if excluded(path) {
				return nil
			}
			if _, ok := languageIDs[strings.ToLower(filepath.Ext(path))]; ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func excluded(path string) bool {
	for _, pattern := range appConfig.Analysis.Exclude {
		if strings.Contains(path, pattern) {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

// scanFiles analyzes files concurrently; the guard bounds actual
// parallelism, so one goroutine per file is safe.
func scanFiles(ctx context.Context, engine *analyzer.Engine, files []string) []report.FileResult {
	results := make([]report.FileResult, len(files))
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			content, err := os.ReadFile(path)
			if err != nil {
				results[i] = report.FileResult{Path: path, Errors: []diagnostics.AnalysisError{{
					File: path, Message: err.Error(), Kind: diagnostics.KindConfiguration,
				}}}
				return
			}

			doc := analyzer.Document{
				LanguageID: languageIDs[strings.ToLower(filepath.Ext(path))],
				FileName:   path,
			}
			features, errs := engine.Analyze(ctx, string(content), doc)
			results[i] = report.FileResult{Path: path, Features: features, Errors: errs}
		}(i, path)
	}

	wg.Wait()
	return results
}

func printStats(cmd *cobra.Command, reporter *diagnostics.Reporter, service *baseline.Service) {
	stats := service.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "dataset: %d features, %d compat keys (fallback: %t)\n",
		stats.TotalFeatures, stats.BCDCacheSize, stats.UsingFallback)

	counts := reporter.Snapshot()
	if len(counts) == 0 {
		return
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(cmd.OutOrStdout(), "errors[%s]: %d\n", k, counts[diagnostics.Kind(k)])
	}
}

func writeSARIF(results []report.FileResult, path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	defer func() { _ = file.Close() }()
	return report.WriteSARIF(results, file)
}
