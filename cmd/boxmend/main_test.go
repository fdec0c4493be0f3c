package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"boxmend/internal/config"
	"boxmend/internal/correct"
	"boxmend/internal/diff"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"one line, no newline",
		"one line\n",
		"two\nlines\n",
		"trailing blank\n\n",
		"\n",
		"crlf\r\nlines\r\n",
		"crlf no trailing\r\nnewline",
		"\r\n",
	}
	for _, in := range tests {
		lines, eol, trailing := splitLines(in)
		assert.Equal(t, in, joinLines(lines, eol, trailing), "round trip of %q", in)
	}
}

func TestSplitLines(t *testing.T) {
	lines, eol, trailing := splitLines("a\nb\n")
	assert.Equal(t, []string{"a", "b"}, lines)
	assert.Equal(t, "\n", eol)
	assert.True(t, trailing)

	lines, eol, trailing = splitLines("a\nb")
	assert.Equal(t, []string{"a", "b"}, lines)
	assert.Equal(t, "\n", eol)
	assert.False(t, trailing)

	lines, eol, trailing = splitLines("")
	assert.Nil(t, lines)
	assert.Equal(t, "\n", eol)
	assert.False(t, trailing)
}

func TestSplitLinesStripsCarriageReturns(t *testing.T) {
	lines, eol, trailing := splitLines("a\r\nb\r\n")
	assert.Equal(t, []string{"a", "b"}, lines)
	assert.Equal(t, "\r\n", eol)
	assert.True(t, trailing)
}

func TestCorrectCRLFDocument(t *testing.T) {
	in := "+-------+\r\n| hi|\r\n+-------+\r\n"

	lines, eol, trailing := splitLines(in)
	corrected, stats := correct.Document(lines, config.Default().Correction, zap.NewNop())
	out := joinLines(corrected, eol, trailing)

	assert.Equal(t, "+-------+\r\n| hi    |\r\n+-------+\r\n", out)
	assert.Equal(t, 1, stats.RevisionsApplied)
}

func TestInputName(t *testing.T) {
	assert.Equal(t, "stdin", inputName(""))
	assert.Equal(t, "doc.md", inputName("doc.md"))
}

func TestDecorateDiffPassesContentThrough(t *testing.T) {
	// With color disabled every decoration is the identity.
	for _, typ := range []diff.LineType{diff.Added, diff.Removed, diff.Context} {
		assert.Contains(t, decorateDiff(typ, "payload"), "payload")
	}
}

func TestWatchableExt(t *testing.T) {
	watchExtensions = []string{".md", ".txt"}
	assert.True(t, watchableExt("notes.md"))
	assert.True(t, watchableExt("NOTES.MD"))
	assert.False(t, watchableExt("binary.png"))
	assert.False(t, watchableExt("no-extension"))
}
