package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boxmend/internal/correct"
	"boxmend/internal/watch"
)

var (
	watchDebounce   time.Duration
	watchExtensions []string
)

var watchCmd = &cobra.Command{
	Use:   "watch PATH...",
	Short: "Watch files or directories and correct diagrams on change",
	Long: `Watch monitors the given files or directories and rewrites each changed
file in place whenever its diagrams drift out of alignment. Rewrites
performed by boxmend itself do not re-trigger correction.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"quiet period before a changed file is corrected again")
	watchCmd.Flags().StringSliceVar(&watchExtensions, "ext", []string{".md", ".txt", ".rst"},
		"file extensions handled when watching a directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	explicit := make(map[string]bool, len(args))
	for _, p := range args {
		explicit[filepath.Clean(p)] = true
	}

	var w *watch.Watcher
	handler := func(path string) {
		if !explicit[path] && !watchableExt(path) {
			return
		}
		correctWatchedFile(w, path)
	}

	w, err := watch.New(args, watchDebounce, logger, handler)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	w.Start(ctx)
	defer w.Stop()

	fmt.Fprintln(os.Stderr, "watching "+strings.Join(args, ", ")+" (ctrl-c to stop)")
	<-ctx.Done()

	if cfg.Output.Verbose {
		s := w.Snapshot()
		logger.Info("watch finished",
			zap.Int("events", s.Events),
			zap.Int("handled", s.Handled),
			zap.Int("suppressed", s.Suppressed))
	}
	return nil
}

func watchableExt(path string) bool {
	ext := filepath.Ext(path)
	for _, allowed := range watchExtensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

// correctWatchedFile reads, corrects, and rewrites one file, marking the
// write as the watcher's own so it is not re-triggered.
func correctWatchedFile(w *watch.Watcher, path string) {
	original, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("read failed", zap.String("path", path), zap.Error(err))
		return
	}

	lines, eol, trailingNewline := splitLines(string(original))
	corrected, stats := correct.Document(lines, cfg.Correction, logger)
	output := joinLines(corrected, eol, trailingNewline)
	if output == string(original) {
		logger.Debug("no changes", zap.String("path", path))
		return
	}

	w.MarkOwnWrite(path)
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		logger.Warn("write failed", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("corrected",
		zap.String("path", path),
		zap.Int("blocks", stats.BlocksModified),
		zap.Int("revisions", stats.RevisionsApplied))
}
