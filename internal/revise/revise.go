// Package revise generates, scores, and applies candidate edits that drive
// a diagram block toward an aligned form. Revisions are a closed variant
// set, every edit is insertion-only, and scoring is a pure function of the
// block, so repeated runs over the same input converge identically.
package revise

import (
	"errors"
	"strings"
	"unicode/utf8"

	"boxmend/internal/analyze"
	"boxmend/internal/boxchar"
	"boxmend/internal/detect"
)

// ErrRevisionOutOfRange marks a revision whose target position no longer
// exists. The correction loop drops such revisions silently; the invariant
// that lines only grow means this is defensive, not expected.
var ErrRevisionOutOfRange = errors.New("revise: revision target out of range")

// DefaultPadSanityLimit caps how many spaces a single padding revision may
// insert. Corrupt input can suggest pathological deficits; past the limit a
// padding revision scores zero.
const DefaultPadSanityLimit = 40

// deficitCap clips the column-deficit contribution to the padding score.
const deficitCap = 10

// Revision is one proposed, scored, content-preserving edit to one line of
// a block. The variant set is closed: only this package constructs them.
type Revision interface {
	// TargetLine is the line index within the block.
	TargetLine() int
	// Score rates the revision in [0,1]; deterministic for identical input.
	Score(b *detect.Block) float64
	// Apply returns a new record with the insertion performed. It never
	// shortens or reorders existing content.
	Apply(rec analyze.LineRecord) (analyze.LineRecord, error)

	sealed()
}

// PadBeforeSuffixBorder inserts spaces before an existing trailing border
// so the border lands on the block's alignment column.
type PadBeforeSuffixBorder struct {
	Line   int
	Spaces int
	Column int

	limit int
}

func (PadBeforeSuffixBorder) sealed() {}

// TargetLine implements Revision.
func (p PadBeforeSuffixBorder) TargetLine() int { return p.Line }

// Score rises with the column deficit (clipped at deficitCap) and with line
// strength, and collapses to zero past the padding sanity limit. The base
// sits above the highest AddSuffixBorder score: padding an existing border
// is always the less invasive edit, so any pad must outrank any insertion.
func (p PadBeforeSuffixBorder) Score(b *detect.Block) float64 {
	limit := p.limit
	if limit <= 0 {
		limit = DefaultPadSanityLimit
	}
	if p.Spaces <= 0 || p.Spaces > limit {
		return 0
	}

	deficit := p.Spaces
	if deficit > deficitCap {
		deficit = deficitCap
	}
	score := 0.7 + 0.2*float64(deficit)/deficitCap
	if rec, ok := blockLine(b, p.Line); ok && rec.Kind == analyze.Diagram {
		score += 0.1
	}
	return clamp01(score)
}

// Apply inserts the spaces immediately before the trailing border rune.
func (p PadBeforeSuffixBorder) Apply(rec analyze.LineRecord) (analyze.LineRecord, error) {
	if p.Spaces <= 0 {
		return rec, ErrRevisionOutOfRange
	}
	trimmed := strings.TrimRight(rec.Raw, " \t")
	if trimmed == "" {
		return rec, ErrRevisionOutOfRange
	}
	last, size := utf8.DecodeLastRuneInString(trimmed)
	if !boxchar.IsVerticalBorder(last) && !boxchar.IsCorner(last) {
		return rec, ErrRevisionOutOfRange
	}
	cut := len(trimmed) - size
	out := rec.Raw[:cut] + strings.Repeat(" ", p.Spaces) + rec.Raw[cut:]
	return analyze.Line(out), nil
}

// AddSuffixBorder appends the block's dominant vertical-border rune at the
// alignment column on a line that has no trailing border at all. More
// invasive than padding, so it scores lower and is only generated when the
// line's own structure makes a missing border plausible.
type AddSuffixBorder struct {
	Line   int
	Border rune
	Column int
}

func (AddSuffixBorder) sealed() {}

// TargetLine implements Revision.
func (a AddSuffixBorder) TargetLine() int { return a.Line }

// Score rates border insertion below padding: strong diagram lines earn a
// modest bonus, weak ones less.
func (a AddSuffixBorder) Score(b *detect.Block) float64 {
	score := 0.5
	if rec, ok := blockLine(b, a.Line); ok && rec.Kind == analyze.Diagram {
		score += 0.2
	} else {
		score += 0.1
	}
	return clamp01(score)
}

// Apply pads the line out to the alignment column and appends the border.
func (a AddSuffixBorder) Apply(rec analyze.LineRecord) (analyze.LineRecord, error) {
	pad := a.Column - rec.Width
	if pad < 0 {
		return rec, ErrRevisionOutOfRange
	}
	out := rec.Raw + strings.Repeat(" ", pad) + string(a.Border)
	return analyze.Line(out), nil
}

// Engine generates revision candidates for a block.
type Engine struct {
	// PadSanityLimit overrides DefaultPadSanityLimit when positive.
	PadSanityLimit int
}

// TargetColumn returns the block's alignment column: the rightmost
// trailing-border column. Any smaller target would need deletions on the
// longer lines, which the monotone-edit invariant forbids.
func (e Engine) TargetColumn(b *detect.Block) (int, bool) {
	target := 0
	found := false
	for _, rec := range b.Lines {
		if rec.Suffix != nil && (!found || rec.Suffix.Column > target) {
			target = rec.Suffix.Column
			found = true
		}
	}
	return target, found
}

// Generate proposes at most one revision per defective line: padding when a
// trailing border sits left of the alignment column, border insertion when
// a plausibly bordered line has none. Blocks without any trailing border
// have no alignment column and produce nothing.
func (e Engine) Generate(b *detect.Block) []Revision {
	target, ok := e.TargetColumn(b)
	if !ok {
		return nil
	}

	limit := e.PadSanityLimit
	if limit <= 0 {
		limit = DefaultPadSanityLimit
	}
	border := boxchar.DominantVerticalBorder(b.Raw())

	var revs []Revision
	for i, rec := range b.Lines {
		if rec.Kind == analyze.Blank {
			continue
		}
		if !rec.Boxy && rec.Kind != analyze.Diagram {
			continue
		}

		if rec.Suffix != nil {
			if col, ok := analyze.DetectSuffixBorder(rec.Raw, target, limit); ok && col < target {
				revs = append(revs, PadBeforeSuffixBorder{
					Line:   i,
					Spaces: target - col,
					Column: target,
					limit:  limit,
				})
			}
			// A border outside the sanity window is left alone rather
			// than doubled up with an AddSuffixBorder.
			continue
		}

		if plausibleMissingBorder(rec, target) {
			revs = append(revs, AddSuffixBorder{
				Line:   i,
				Border: border,
				Column: target,
			})
		}
	}
	return revs
}

// plausibleMissingBorder reports whether a line with no trailing border
// looks like it should have one: it opens with a border rune, or its
// content already reaches within two columns of the alignment column.
func plausibleMissingBorder(rec analyze.LineRecord, target int) bool {
	if rec.Width > target {
		return false
	}
	trimmed := strings.TrimLeft(rec.Raw, " \t")
	if trimmed != "" {
		first, _ := utf8.DecodeRuneInString(trimmed)
		if boxchar.IsVerticalBorder(first) || boxchar.IsCorner(first) {
			return true
		}
	}
	return target-rec.Width <= 2
}

func blockLine(b *detect.Block, i int) (analyze.LineRecord, bool) {
	if i < 0 || i >= len(b.Lines) {
		return analyze.LineRecord{}, false
	}
	return b.Lines[i], true
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
