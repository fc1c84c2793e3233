package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/theirongolddev/paycycle/internal/source"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// LoadResult holds the merged output of parsing one or more export files.
type LoadResult struct {
	Export      source.Export
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	Skipped     int
	Errors      []error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// LoadExports discovers export files under each path and parses them with a
// bounded worker pool. Files are merged in path order, so a later file's
// salary settings win. Unparseable files are counted, not fatal.
func LoadExports(ctx context.Context, paths []string, progressFn ProgressFunc) (*LoadResult, error) {
	var files []source.DiscoveredFile
	for _, p := range paths {
		found, err := source.ScanDir(p)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		files = append(files, found...)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	results := make([]source.ParseResult, len(files))
	var processed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i := range files {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = source.ParseFile(files[i])
			n := processed.Add(1)
			if progressFn != nil {
				progressFn(int(n), len(files))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", pr.File.Path, pr.Err))
			continue
		}
		result.ParsedFiles++
		result.Skipped += pr.Skipped
		mergeExport(&result.Export, pr.Export)
	}

	return result, nil
}

func mergeExport(dst *source.Export, src source.Export) {
	dst.Expenses = append(dst.Expenses, src.Expenses...)
	dst.History = append(dst.History, src.History...)
	dst.Incomes = append(dst.Incomes, src.Incomes...)
	if src.BaseSalary != nil {
		dst.BaseSalary = src.BaseSalary
	}
	if src.Payday > 0 {
		dst.Payday = src.Payday
	}
	if len(src.Overrides) > 0 && dst.Overrides == nil {
		dst.Overrides = make(map[string]decimal.Decimal, len(src.Overrides))
	}
	for k, v := range src.Overrides {
		dst.Overrides[k] = v
	}
	if src.ExportDate.After(dst.ExportDate) {
		dst.ExportDate = src.ExportDate
	}
}

// ImportBatch converts a parsed export into a store batch.
func ImportBatch(e source.Export) store.ImportBatch {
	return store.ImportBatch{
		Expenses:   e.Expenses,
		BaseSalary: e.BaseSalary,
		Payday:     e.Payday,
		Overrides:  e.Overrides,
		History:    e.History,
		Incomes:    e.Incomes,
	}
}
