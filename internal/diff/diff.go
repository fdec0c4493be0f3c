// Package diff computes line diffs between the original and corrected
// document and renders them in unified format for the --diff flag.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType classifies a diff line.
type LineType int

const (
	// Context is an unchanged line shown around a change.
	Context LineType = iota
	// Added is a line present only in the corrected text.
	Added
	// Removed is a line present only in the original text.
	Removed
)

// Line is one rendered diff line.
type Line struct {
	Type    LineType
	Content string
}

// Hunk groups nearby changes with surrounding context.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// contextLines is how much unchanged context surrounds each hunk.
const contextLines = 3

// Compute returns the hunks between two texts. Diffing runs in line mode:
// lines are mapped to runes, diffed, cleaned up, and mapped back, which
// avoids newline-boundary artifacts in the line ops.
func Compute(oldText, newText string) []Hunk {
	if oldText == newText {
		return nil
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	return group(toOps(diffs))
}

// op is one line-level operation with both-side line numbers (zero-based,
// -1 when the line does not exist on that side).
type op struct {
	typ     LineType
	oldLine int
	newLine int
	content string
}

func toOps(diffs []diffmatchpatch.Diff) []op {
	var ops []op
	oldLine, newLine := 0, 0

	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		for _, line := range lines {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, op{Context, oldLine, newLine, line})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, op{Removed, oldLine, -1, line})
				oldLine++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, op{Added, -1, newLine, line})
				newLine++
			}
		}
	}
	return ops
}

// group slices the op stream into hunks, keeping contextLines of unchanged
// text on each side of a change run.
func group(ops []op) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(ops) {
		if ops[i].typ == Context {
			i++
			continue
		}

		// Found a change; open the hunk contextLines back.
		start := i - contextLines
		if start < 0 {
			start = 0
		}
		end := i
		lastChange := i
		for end < len(ops) {
			if ops[end].typ != Context {
				lastChange = end
			} else if end-lastChange > 2*contextLines {
				break
			}
			end++
		}
		stop := lastChange + contextLines + 1
		if stop > end {
			stop = end
		}

		h := Hunk{
			OldStart: oldLineAt(ops, start),
			NewStart: newLineAt(ops, start),
		}
		for _, o := range ops[start:stop] {
			h.Lines = append(h.Lines, Line{Type: o.typ, Content: o.content})
			if o.typ != Added {
				h.OldCount++
			}
			if o.typ != Removed {
				h.NewCount++
			}
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}

// oldLineAt finds the one-based old-side line number in effect at ops[i].
func oldLineAt(ops []op, i int) int {
	for j := i; j < len(ops); j++ {
		if ops[j].oldLine >= 0 {
			return ops[j].oldLine + 1
		}
	}
	return 1
}

func newLineAt(ops []op, i int) int {
	for j := i; j < len(ops); j++ {
		if ops[j].newLine >= 0 {
			return ops[j].newLine + 1
		}
	}
	return 1
}

// Unified renders hunks in unified-diff format. The decorate callback, when
// non-nil, wraps each emitted line (header, context, add, remove) so the
// caller can colorize without this package knowing about styling.
func Unified(oldName, newName string, hunks []Hunk, decorate func(LineType, string) string) string {
	if len(hunks) == 0 {
		return ""
	}
	if decorate == nil {
		decorate = func(_ LineType, s string) string { return s }
	}

	var b strings.Builder
	fmt.Fprintln(&b, decorate(Removed, "--- "+oldName))
	fmt.Fprintln(&b, decorate(Added, "+++ "+newName))
	for _, h := range hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		fmt.Fprintln(&b, decorate(Context, header))
		for _, line := range h.Lines {
			switch line.Type {
			case Added:
				fmt.Fprintln(&b, decorate(Added, "+"+line.Content))
			case Removed:
				fmt.Fprintln(&b, decorate(Removed, "-"+line.Content))
			default:
				fmt.Fprintln(&b, decorate(Context, " "+line.Content))
			}
		}
	}
	return b.String()
}
