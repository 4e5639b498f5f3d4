// Package scan implements the content matching pipeline: per-indicator
// passes over the candidate file set and attribution of matched files back
// to the extensions that own them.
package scan

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"sort"

	"github.com/boyter/gocodewalker"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/exthunt/cli/internal/chromium"
)

// Record pairs a file with one indicator found inside it.
type Record struct {
	File      string
	Indicator string
}

// Roots returns the deduplicated, sorted set of directories to search:
// every entry's code path plus its data path when present.
func Roots(entries []*chromium.Entry) []string {
	var roots []string
	for _, e := range entries {
		roots = append(roots, e.CodePath)
		if e.DataPath != "" {
			roots = append(roots, e.DataPath)
		}
	}
	roots = lo.Uniq(roots)
	sort.Strings(roots)
	return roots
}

// Match runs one full pass over the root set per indicator and reports every
// (file, indicator) pair found. Passes are independent and run concurrently;
// their results are merged, deduplicated, and sorted only after every pass
// has finished. The only error Match returns is ctx's: an interrupted scan
// yields no records at all rather than a partial set.
func Match(ctx context.Context, roots, indicators []string) ([]Record, error) {
	results := make([][]Record, len(indicators))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, indicator := range indicators {
		g.Go(func() error {
			pterm.Info.Printf("Searching for indicator: %s\n", indicator)
			records, err := matchOne(ctx, roots, indicator)
			if err != nil {
				return err
			}
			pterm.Info.Printf("Indicator %s: %d matching file(s)\n", indicator, len(records))
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Record
	for _, records := range results {
		merged = append(merged, records...)
	}
	merged = lo.Uniq(merged)
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].File != merged[j].File {
			return merged[i].File < merged[j].File
		}
		return merged[i].Indicator < merged[j].Indicator
	})
	return merged, nil
}

// matchOne walks every root and records the files whose raw contents contain
// the indicator. Contents are treated as bytes so binary data (LevelDB logs,
// packed resources) is searched the same as text. Files that cannot be read
// are skipped; a locked or vanished file never aborts the pass.
func matchOne(ctx context.Context, roots []string, indicator string) ([]Record, error) {
	needle := []byte(indicator)

	var records []Record
	for _, root := range roots {
		fileQueue := make(chan *gocodewalker.File, 256)
		walker := gocodewalker.NewFileWalker(root, fileQueue)
		walker.IncludeHidden = true
		walker.IgnoreIgnoreFile = true
		walker.IgnoreGitIgnore = true
		walker.SetErrorHandler(func(err error) bool {
			pterm.Debug.Printf("walk error under %s: %v\n", root, err)
			return true
		})

		errChan := make(chan error, 1)
		go func() {
			errChan <- walker.Start()
		}()

		cancelled := false
		for f := range fileQueue {
			if cancelled {
				continue
			}
			select {
			case <-ctx.Done():
				walker.Terminate()
				cancelled = true
				continue
			default:
			}

			data, err := os.ReadFile(f.Location)
			if err != nil {
				pterm.Debug.Printf("skipping unreadable file %s: %v\n", f.Location, err)
				continue
			}
			if bytes.Contains(data, needle) {
				pterm.Debug.Printf("match: %q in %s\n", indicator, f.Location)
				records = append(records, Record{File: f.Location, Indicator: indicator})
			}
		}

		if err := <-errChan; err != nil {
			pterm.Debug.Printf("skipping unwalkable root %s: %v\n", root, err)
		}
		if cancelled {
			return nil, ctx.Err()
		}
	}
	return records, nil
}
