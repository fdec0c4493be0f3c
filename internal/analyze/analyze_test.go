package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisualWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"A", 1},
		{"hello", 5},
		{"漢", 2},
		{"🙂", 2},
		{"\u200d", 0}, // zero-width joiner alone
		{"e\u0301", 1}, // combining acute adds nothing
		{"│──│", 4}, // box drawing is single width
		{"日本語", 6},
		{"a漢b", 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VisualWidth(tt.in), "VisualWidth(%q)", tt.in)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"", Blank},
		{"   ", Blank},
		{"\t", Blank},
		{"hello world", Prose},
		{"a sentence with several plain words", Prose},
		{"+---+", Diagram},
		{"| x |", Diagram},
		{"┌───┐", Diagram},
		{"│ y │", Diagram},
		{"╔══╗", Diagram},
		{"    return fmt.Errorf(\"boom\")", Code},
		{"x := compute(y)", Code},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyLine(tt.in), "ClassifyLine(%q)", tt.in)
	}
}

func TestClassifyLineTiesResolveToProse(t *testing.T) {
	// A stray hyphen or equals sign must not flip prose into a diagram.
	for _, in := range []string{"- a list item", "a = b in prose", "well-known words"} {
		got := ClassifyLine(in)
		assert.NotEqual(t, Diagram, got, "ClassifyLine(%q)", in)
	}
}

func TestDetectSuffixBorder(t *testing.T) {
	col, ok := DetectSuffixBorder("| hello |", 8, 40)
	assert.True(t, ok)
	assert.Equal(t, 8, col)

	// Trailing whitespace is scanned past.
	col, ok = DetectSuffixBorder("| hi|   ", 8, 40)
	assert.True(t, ok)
	assert.Equal(t, 4, col)

	// Outside the tolerance window.
	_, ok = DetectSuffixBorder("| hi|", 50, 10)
	assert.False(t, ok)

	// No border at all.
	_, ok = DetectSuffixBorder("hello world", 8, 40)
	assert.False(t, ok)

	_, ok = DetectSuffixBorder("", 0, 40)
	assert.False(t, ok)
}

func TestLineRecord(t *testing.T) {
	rec := Line("| hi │ there |")
	assert.Equal(t, Diagram, rec.Kind)
	assert.True(t, rec.Boxy)
	assert.NotNil(t, rec.Suffix)
	assert.Equal(t, '|', rec.Suffix.Char)
	assert.Equal(t, []int{0, 5, 13}, rec.BorderCols)
	assert.Equal(t, 14, rec.Width)

	prose := Line("  plain text")
	assert.Equal(t, Prose, prose.Kind)
	assert.False(t, prose.Boxy)
	assert.Nil(t, prose.Suffix)
	assert.Equal(t, 2, prose.Indent)
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in   string
		tab  int
		want string
	}{
		{"\thello", 4, "    hello"},
		{"a\tb", 4, "a   b"},
		{"ab\tc", 4, "ab  c"},
		{"abc\td", 4, "abc d"},
		{"abcd\te", 4, "abcd    e"},
		{"no tabs here", 4, "no tabs here"},
		{"\t", 8, "        "},
		{"漢\tx", 4, "漢  x"}, // tab stop counted in visual columns
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandTabs(tt.in, tt.tab), "ExpandTabs(%q, %d)", tt.in, tt.tab)
	}
}

func TestLineIsPure(t *testing.T) {
	const in = "| data │"
	first := Line(in)
	second := Line(in)
	assert.Equal(t, first, second)
}
