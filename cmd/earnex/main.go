// Command earnex is a one-shot batch extractor: it runs the same
// engine as the server against local files and writes CSV or XLSX.
package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tdalton7/earnex/internal/config"
	"github.com/tdalton7/earnex/internal/export"
	"github.com/tdalton7/earnex/internal/oracle"
	"github.com/tdalton7/earnex/internal/parser"
	"github.com/tdalton7/earnex/internal/pipeline"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "earnex",
		Short: "Extract financial fields from earnings documents",
	}
	root.AddCommand(extractCmd())
	return root
}

func extractCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
		xlsxPath   string
		workers    int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "extract [files or directories...]",
		Short: "Run batch extraction against local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if configPath != "" {
				if err := cfg.ApplyFile(configPath); err != nil {
					return err
				}
			}
			if cfg.AnthropicAPIKey == "" {
				return fmt.Errorf("ANTHROPIC_API_KEY is required")
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			docs, err := collectDocuments(args)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return fmt.Errorf("no supported documents found")
			}
			log.Info("extracting", "documents", len(docs))

			oc := oracle.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
			defer oc.Close()
			coord := pipeline.NewCoordinator(cfg, oc, log)

			outcome := coord.ExtractBatch(cmd.Context(), docs, workers)

			if xlsxPath != "" {
				if err := export.WriteXLSX(xlsxPath, outcome); err != nil {
					return err
				}
			}
			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := export.WriteCSV(out, outcome); err != nil {
				return err
			}

			failed := 0
			for _, r := range outcome {
				if r.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: %s\n", r.Document, r.Err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(outcome))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "CSV output path (default stdout)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "batch worker count (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	return cmd
}

// collectDocuments expands the argument list: directories are walked
// for supported files, explicit files are taken as-is.
func collectDocuments(args []string) ([]pipeline.Document, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && parser.IsSupportedExtension(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)

	docs := make([]pipeline.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, pipeline.Document{Name: filepath.Base(path), Data: data})
	}
	return docs, nil
}
