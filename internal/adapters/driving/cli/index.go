package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driving"
	"github.com/glasswing-labs/ragcore/internal/loader"
	"github.com/glasswing-labs/ragcore/internal/logger"
)

var (
	indexExtensions []string
	indexWatch      bool
	indexRecursive  bool
)

// defaultExtensions are the file types indexed by default.
var defaultExtensions = []string{".txt", ".md", ".rst"}

var indexCmd = &cobra.Command{
	Use:   "index [path...]",
	Short: "Index files or directories",
	Long: `Reads the given files (or walks directories) and indexes their
content. Unchanged files are skipped. With --watch, keeps running and
re-indexes files as they change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVarP(&indexExtensions, "ext", "e", defaultExtensions,
		"file extensions to index when walking directories")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false,
		"watch paths and re-index on changes")
	indexCmd.Flags().BoolVarP(&indexRecursive, "recursive", "r", true,
		"descend into subdirectories")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	ctx := cmd.Context()

	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("No indexable files found.")
		return nil
	}

	outcomes, err := indexerService.IndexAll(ctx, docs)
	printOutcomes(cmd, outcomes)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if err := vectorStore.Persist(ctx); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}

	if indexWatch {
		return watchAndIndex(ctx, cmd, args)
	}
	return nil
}

// collectDocuments reads the given paths into documents. Directories are
// walked recursively, keeping only files matching the extension filter.
func collectDocuments(paths []string) ([]*domain.Document, error) {
	var docs []*domain.Document
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			doc, err := loader.Load(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p == path {
					return nil
				}
				// Skip hidden directories like .git.
				if !indexRecursive || strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !indexableFile(p) {
				return nil
			}
			doc, err := loader.Load(p)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	return docs, nil
}

// indexableFile reports whether the file matches the extension filter.
func indexableFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range indexExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func printOutcomes(cmd *cobra.Command, outcomes []driving.IndexOutcome) {
	var indexed, skipped, failed int
	for i := range outcomes {
		switch outcomes[i].Status {
		case driving.StatusIndexed:
			indexed++
			cmd.Printf("  indexed  %s (%d chunks)\n", outcomes[i].DocumentID, outcomes[i].Chunks)
		case driving.StatusSkipped:
			skipped++
		case driving.StatusFailed:
			failed++
			cmd.Printf("  failed   %s: %v\n", outcomes[i].DocumentID, outcomes[i].Err)
		}
	}
	cmd.Printf("Indexed %d, skipped %d unchanged, %d failed.\n", indexed, skipped, failed)
}

// watchAndIndex re-indexes files as they change until interrupted.
// Events are debounced because editors fire several writes per save.
func watchAndIndex(ctx context.Context, cmd *cobra.Command, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
					return watcher.Add(p)
				}
				return nil
			})
		} else {
			err = watcher.Add(filepath.Dir(path))
		}
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	pending := make(map[string]struct{})
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !indexableFile(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			debounce.Reset(500 * time.Millisecond)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", watchErr)

		case <-debounce.C:
			for path := range pending {
				delete(pending, path)
				doc, err := loader.Load(path)
				if err != nil {
					logger.Warn("Reading %s: %v", path, err)
					continue
				}
				outcome, err := indexerService.IndexDocument(ctx, doc)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					logger.Warn("Re-indexing %s: %v", path, err)
					continue
				}
				if outcome.Status == driving.StatusIndexed {
					cmd.Printf("  re-indexed %s (%d chunks)\n", path, outcome.Chunks)
				}
			}
			if err := vectorStore.Persist(ctx); err != nil {
				logger.Warn("Persisting index: %v", err)
			}
		}
	}
}
