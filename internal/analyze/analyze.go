// Package analyze performs per-line structural analysis of a document:
// visual width, line classification, and trailing-border detection. Every
// function here is pure; records are rebuilt from scratch on each
// correction pass rather than updated incrementally.
package analyze

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"boxmend/internal/boxchar"
)

// Kind classifies a line for block detection.
type Kind int

const (
	// Blank is empty or whitespace-only.
	Blank Kind = iota
	// Prose is ordinary text with no diagram structure.
	Prose
	// Code looks like source code rather than prose or diagram.
	Code
	// Diagram is predominantly box-drawing structure.
	Diagram
)

// String returns the kind name for logging and test output.
func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Code:
		return "code"
	case Diagram:
		return "diagram"
	default:
		return "prose"
	}
}

// SuffixBorder describes a vertical border or corner found at the visual
// end of a line.
type SuffixBorder struct {
	// Column is the visual column the border rune starts at.
	Column int
	// Char is the border rune itself.
	Char rune
}

// LineRecord is the analyzed form of one line. It is immutable once
// produced; correction replaces records wholesale instead of mutating them.
type LineRecord struct {
	Raw    string
	Kind   Kind
	Width  int
	Indent int
	// Boxy is set when the line contains any box-drawing rune, even if it
	// is too weak to classify as Diagram on its own.
	Boxy bool
	// Suffix is the trailing border, if one exists.
	Suffix *SuffixBorder
	// BorderCols holds the visual columns of every vertical-border rune.
	BorderCols []int
}

// widthCond pins the width tables instead of using the runewidth package
// default, which follows the ambient locale and would render ambiguous
// runes (box drawing included) two columns wide under East Asian locales.
var widthCond = &runewidth.Condition{StrictEmojiNeutral: true}

// VisualWidth returns the rendered column width of s: the per-codepoint sum
// with zero-width joiners and combining marks counting 0 and East-Asian
// wide, fullwidth, and emoji codepoints counting 2. All column arithmetic
// in the corrector uses this, never rune or byte counts.
func VisualWidth(s string) int {
	w := 0
	for _, r := range s {
		w += widthCond.RuneWidth(r)
	}
	return w
}

// ClassifyLine decides what a line is. Ties resolve toward Prose so that
// false-positive diagram detection stays rare.
func ClassifyLine(s string) Kind {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Blank
	}

	boxCount := 0
	total := 0
	hasCorner := false
	for _, r := range trimmed {
		total++
		if boxchar.IsBoxChar(r) {
			boxCount++
		}
		if boxchar.IsCorner(r) {
			hasCorner = true
		}
	}

	first, _ := firstRune(trimmed)
	last, _ := lastRune(trimmed)
	startsBorder := boxchar.IsVerticalBorder(first) || boxchar.IsCorner(first)
	endsBorder := boxchar.IsVerticalBorder(last) || boxchar.IsCorner(last)

	if hasCorner || (startsBorder && endsBorder) || boxCount*3 >= total {
		return Diagram
	}
	if looksLikeCode(s, trimmed) {
		return Code
	}
	return Prose
}

// looksLikeCode flags lines that are indentation plus symbols rather than
// prose words. It deliberately under-triggers: Code and Prose behave the
// same during correction, so a miss is harmless.
func looksLikeCode(raw, trimmed string) bool {
	indented := strings.HasPrefix(raw, "    ") || strings.HasPrefix(raw, "\t")
	symbols := strings.ContainsAny(trimmed, "{}();") ||
		strings.Contains(trimmed, ":=") ||
		strings.Contains(trimmed, "->")
	if !symbols {
		return false
	}
	words := 0
	for _, f := range strings.Fields(trimmed) {
		if isWord(f) {
			words++
		}
	}
	return indented || words < 3
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

// suffixBorder scans backward past trailing whitespace for a vertical
// border or corner ending the line.
func suffixBorder(s string) *SuffixBorder {
	trimmed := strings.TrimRight(s, " \t")
	if trimmed == "" {
		return nil
	}
	last, _ := lastRune(trimmed)
	if !boxchar.IsVerticalBorder(last) && !boxchar.IsCorner(last) {
		return nil
	}
	return &SuffixBorder{
		Column: VisualWidth(trimmed) - widthCond.RuneWidth(last),
		Char:   last,
	}
}

// DetectSuffixBorder reports the column of a trailing border when it falls
// within tol columns at or below expected. It distinguishes a line whose
// border merely drifted (pad it back) from one missing its border entirely.
func DetectSuffixBorder(s string, expected, tol int) (int, bool) {
	sb := suffixBorder(s)
	if sb == nil {
		return 0, false
	}
	if sb.Column > expected || expected-sb.Column > tol {
		return 0, false
	}
	return sb.Column, true
}

// Line analyzes one line into a LineRecord.
func Line(s string) LineRecord {
	kind := ClassifyLine(s)

	boxy := false
	var cols []int
	col := 0
	for _, r := range s {
		if boxchar.IsBoxChar(r) {
			boxy = true
		}
		if boxchar.IsVerticalBorder(r) {
			cols = append(cols, col)
		}
		col += widthCond.RuneWidth(r)
	}

	var suffix *SuffixBorder
	if kind == Diagram || boxy {
		suffix = suffixBorder(s)
	}

	return LineRecord{
		Raw:        s,
		Kind:       kind,
		Width:      col,
		Indent:     len(s) - len(strings.TrimLeft(s, " \t")),
		Boxy:       boxy,
		Suffix:     suffix,
		BorderCols: cols,
	}
}

// ExpandTabs replaces each tab with the spaces needed to reach the next
// multiple of tabWidth, measured in visual columns. Expansion runs once
// over the whole document before any analysis so that all border math sees
// the expanded text.
func ExpandTabs(s string, tabWidth int) string {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	if !strings.ContainsRune(s, '\t') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + tabWidth)
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			for i := 0; i < n; i++ {
				b.WriteByte(' ')
			}
			col += n
			continue
		}
		b.WriteRune(r)
		col += widthCond.RuneWidth(r)
	}
	return b.String()
}

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, true
}
