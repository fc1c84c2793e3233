package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/theirongolddev/paycycle/internal/log"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/source"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>...",
	Short: "Import JSON backups (legacy format accepted)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup of all data",
	RunE:  runExport,
}

var (
	importDryRun bool
	exportOutput string
)

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report without writing")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger(log.ComponentImport)
	start := time.Now()

	progress("  Scanning backups...\n")
	result, err := pipeline.LoadExports(ctx, args, func(current, total int) {
		progress("\r  Parsing [%d/%d]", current, total)
	})
	if err != nil {
		return err
	}
	if result.TotalFiles == 0 {
		fmt.Println("\n  No JSON files found.")
		return nil
	}
	progress("\n")

	for _, e := range result.Errors {
		logger.Warn("file skipped", log.FieldOperation, log.OpImport, log.FieldError, e)
	}

	exp := result.Export
	fmt.Printf("  Parsed %d of %d files: %d expenses, %d history entries, %d income entries\n",
		result.ParsedFiles, result.TotalFiles, len(exp.Expenses), len(exp.History), len(exp.Incomes))
	if result.Skipped > 0 {
		fmt.Printf("  Skipped %d malformed expenses\n", result.Skipped)
	}
	if importDryRun {
		fmt.Println("  Dry run: nothing written.")
		return nil
	}

	return withStore(func(ctx context.Context, st *store.Store) error {
		stats, err := st.Import(ctx, pipeline.ImportBatch(exp))
		if err != nil {
			return err
		}
		logger.Info("import complete",
			log.FieldOperation, log.OpImport,
			log.FieldCount, stats.Expenses,
			log.FieldDuration, time.Since(start).Milliseconds())
		fmt.Printf("  Imported %d expenses, %d overrides, %d history entries, %d income entries\n",
			stats.Expenses, stats.Overrides, stats.History, stats.Incomes)
		if stats.Skipped > 0 {
			fmt.Printf("  %d expenses failed validation and were skipped\n", stats.Skipped)
		}
		return nil
	})
}

func runExport(_ *cobra.Command, _ []string) error {
	return withSnapshot(func(_ context.Context, _ *store.Store, snap pipeline.Snapshot) error {
		var w io.Writer = os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput) //nolint:gosec // user-chosen output path
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		e := source.ExportOf(snap.Expenses, snap.Config, snap.History, snap.Incomes)
		if err := source.Write(w, e, time.Now()); err != nil {
			return err
		}
		newLogger(log.ComponentImport).Debug("export written",
			log.FieldOperation, log.OpExport,
			log.FieldCount, len(e.Expenses))
		if exportOutput != "" {
			fmt.Fprintf(os.Stderr, "  Wrote %d expenses to %s\n", len(e.Expenses), exportOutput)
		}
		return nil
	})
}
