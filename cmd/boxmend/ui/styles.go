// Package ui provides the lipgloss styling for boxmend's terminal output.
// Styled text goes to stderr (summaries) or stdout (diffs); when color is
// off every helper degrades to plain text.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

var enabled = true

// SetColor applies the configured color mode: "always", "never", or "auto"
// (on only when stdout is a terminal).
func SetColor(mode string, isTerminal bool) {
	switch mode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	default:
		enabled = isTerminal
	}
}

func paint(style lipgloss.Style, s string) string {
	if !enabled {
		return s
	}
	return style.Render(s)
}

// Header styles a section heading.
func Header(s string) string { return paint(headerStyle, s) }

// Success styles a positive result line.
func Success(s string) string { return paint(successStyle, s) }

// Warn styles a cautionary line.
func Warn(s string) string { return paint(warnStyle, s) }

// Dim styles low-priority detail.
func Dim(s string) string { return paint(dimStyle, s) }

// DiffAdd styles an added diff line.
func DiffAdd(s string) string { return paint(addStyle, s) }

// DiffRemove styles a removed diff line.
func DiffRemove(s string) string { return paint(removeStyle, s) }

// DiffMeta styles diff headers and hunk markers.
func DiffMeta(s string) string { return paint(metaStyle, s) }

// Summary renders the end-of-run statistics line.
func Summary(found, modified, revisions, iterations int) string {
	if found == 0 {
		return Dim("no diagram blocks found")
	}
	return Success(fmt.Sprintf(
		"%d block(s) found, %d modified, %d revision(s) applied in %d iteration(s)",
		found, modified, revisions, iterations))
}
