// boxmend finds ASCII/Unicode box-drawing diagrams in plain-text documents
// and repairs their alignment: padding short lines and adding missing
// border segments without altering any other content.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boxmend/cmd/boxmend/ui"
	"boxmend/internal/config"
	"boxmend/internal/correct"
	"boxmend/internal/diff"
	"boxmend/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Correction flags
	maxIters  int
	minScore  float64
	tabWidth  int
	allBlocks bool

	// Output flags
	inPlace   bool
	backupExt string
	showDiff  bool
	checkMode bool
	colorMode string

	cfg    *config.Config
	logger *zap.Logger
)

// errCheckFailed signals --check found diagrams that need correction; main
// maps it to exit code 1 without an error banner.
var errCheckFailed = errors.New("diagrams need correction")

var rootCmd = &cobra.Command{
	Use:   "boxmend [FILE]",
	Short: "boxmend - repair misaligned ASCII/Unicode box diagrams",
	Long: `boxmend locates box-drawing diagrams embedded in plain text and fixes
their alignment: trailing borders are padded out to a common column and
missing border segments are inserted. Everything outside the diagrams
passes through untouched.

Reads FILE, or standard input when no file is given.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// Explicit flags win over config file and environment.
		if cmd.Flags().Changed("max-iters") {
			cfg.Correction.MaxIterations = maxIters
		}
		if cmd.Flags().Changed("min-score") {
			cfg.Correction.MinScore = minScore
		}
		if cmd.Flags().Changed("tab-width") {
			cfg.Correction.TabWidth = tabWidth
		}
		if cmd.Flags().Changed("all") {
			cfg.Correction.IncludeLowConfidence = allBlocks
		}
		if cmd.Flags().Changed("color") {
			cfg.Output.Color = colorMode
		}
		if verbose {
			cfg.Output.Verbose = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ui.SetColor(cfg.Output.Color, stdoutIsTerminal())

		logger, err = logging.New(cfg.Output.Verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runCorrect,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", ".boxmend.yaml", "config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "show correction progress")
	pf.IntVarP(&maxIters, "max-iters", "m", 10, "maximum correction iterations per block")
	pf.Float64VarP(&minScore, "min-score", "s", 0.5, "minimum score for applying revisions (0.0-1.0)")
	pf.IntVarP(&tabWidth, "tab-width", "t", 4, "tab width for expansion")
	pf.BoolVarP(&allBlocks, "all", "a", false, "process all diagram-like blocks, not just confident ones")
	pf.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")

	f := rootCmd.Flags()
	f.BoolVarP(&inPlace, "in-place", "i", false, "edit the file in place")
	f.StringVar(&backupExt, "backup", "", "write FILE+EXT before editing in place")
	f.BoolVar(&showDiff, "diff", false, "print a unified diff instead of the corrected text")
	f.BoolVar(&checkMode, "check", false, "exit 1 when corrections would be made, writing nothing")
}

func runCorrect(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if inPlace && path == "" {
		return errors.New("--in-place requires an input file")
	}

	original, err := readInput(path)
	if err != nil {
		return err
	}

	lines, eol, trailingNewline := splitLines(original)
	logger.Debug("processing document", zap.Int("lines", len(lines)))

	corrected, stats := correct.Document(lines, cfg.Correction, logger)
	output := joinLines(corrected, eol, trailingNewline)
	changed := output != original

	if cfg.Output.Verbose {
		fmt.Fprintln(os.Stderr, ui.Summary(
			stats.BlocksFound, stats.BlocksModified,
			stats.RevisionsApplied, stats.IterationsUsed))
	}

	if checkMode {
		if changed {
			fmt.Fprintln(os.Stderr, ui.Warn(inputName(path)+": diagrams need correction"))
			return errCheckFailed
		}
		if cfg.Output.Verbose {
			fmt.Fprintln(os.Stderr, ui.Success(inputName(path)+": diagrams aligned"))
		}
		return nil
	}

	if showDiff {
		hunks := diff.Compute(original, output)
		name := inputName(path)
		fmt.Print(diff.Unified("a/"+name, "b/"+name, hunks, decorateDiff))
	}

	if inPlace {
		return writeInPlace(path, output)
	}
	if !showDiff {
		fmt.Print(output)
	}
	return nil
}

func decorateDiff(t diff.LineType, s string) string {
	switch t {
	case diff.Added:
		return ui.DiffAdd(s)
	case diff.Removed:
		return ui.DiffRemove(s)
	default:
		return ui.DiffMeta(s)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}
	return string(data), nil
}

func writeInPlace(path, output string) error {
	if backupExt != "" {
		orig, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read for backup: %w", err)
		}
		if err := os.WriteFile(path+backupExt, orig, 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func inputName(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}

// splitLines breaks a document into lines, remembering the newline flavor
// and whether the text ended with one so reassembly is byte-faithful for
// untouched input. Carriage returns are stripped here and restored on join;
// a trailing \r would otherwise hide every suffix border from the analyzer.
func splitLines(text string) ([]string, string, bool) {
	if text == "" {
		return nil, "\n", false
	}
	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
	}
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = text[:len(text)-1]
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, eol, trailing
}

func joinLines(lines []string, eol string, trailingNewline bool) string {
	out := strings.Join(lines, eol)
	if trailingNewline && len(lines) > 0 {
		out += eol
	}
	return out
}

func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errCheckFailed) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
