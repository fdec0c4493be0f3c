// Package boxchar classifies runes by their structural role in an ASCII or
// Unicode box drawing. Classification is total: every rune maps to exactly
// one role, and anything outside the fixed box-drawing sets is Plain.
package boxchar

// Role is the structural role a rune plays inside a box drawing.
type Role int

const (
	// Plain is any rune that takes no part in box structure.
	Plain Role = iota
	// Corner joins a horizontal and a vertical border.
	Corner
	// HorizontalFill forms the body of a horizontal border.
	HorizontalFill
	// VerticalBorder forms the body of a vertical border.
	VerticalBorder
	// Junction is a T- or cross-joint between borders.
	Junction
)

// String returns the role name for logging and test failure messages.
func (r Role) String() string {
	switch r {
	case Corner:
		return "corner"
	case HorizontalFill:
		return "horizontal-fill"
	case VerticalBorder:
		return "vertical-border"
	case Junction:
		return "junction"
	default:
		return "plain"
	}
}

// Fixed role sets: ASCII plus the light, heavy, double and dashed
// box-drawing codepoints, and the rounded corners.
const (
	cornerRunes   = "+┌┐└┘╔╗╚╝╭╮╯╰"
	fillRunes     = "-─━═╌╍┄┅┈┉~="
	verticalRunes = "|│┃║╎╏┆┇┊┋"
	junctionRunes = "┬┴├┤┼╦╩╠╣╬╤╧╟╢╫╪"
)

var roles = buildRoleTable()

func buildRoleTable() map[rune]Role {
	t := make(map[rune]Role, 64)
	for _, r := range cornerRunes {
		t[r] = Corner
	}
	for _, r := range fillRunes {
		t[r] = HorizontalFill
	}
	for _, r := range verticalRunes {
		t[r] = VerticalBorder
	}
	for _, r := range junctionRunes {
		t[r] = Junction
	}
	return t
}

// Classify returns the structural role of r. Runes outside the fixed sets,
// including controls and emoji, classify as Plain.
func Classify(r rune) Role {
	return roles[r]
}

// IsCorner reports whether r is a corner piece.
func IsCorner(r rune) bool { return Classify(r) == Corner }

// IsHorizontalFill reports whether r forms a horizontal border run.
func IsHorizontalFill(r rune) bool { return Classify(r) == HorizontalFill }

// IsVerticalBorder reports whether r forms a vertical border.
func IsVerticalBorder(r rune) bool { return Classify(r) == VerticalBorder }

// IsJunction reports whether r is a T- or cross-junction.
func IsJunction(r rune) bool { return Classify(r) == Junction }

// IsBoxChar reports whether r plays any structural role at all.
func IsBoxChar(r rune) bool { return Classify(r) != Plain }

// DominantVerticalBorder returns the most frequent vertical-border rune
// across lines, defaulting to the ASCII pipe when none is present. Ties
// resolve toward the smaller codepoint so repeated calls are deterministic.
func DominantVerticalBorder(lines []string) rune {
	counts := make(map[rune]int)
	for _, line := range lines {
		for _, r := range line {
			if IsVerticalBorder(r) {
				counts[r]++
			}
		}
	}

	best := '|'
	bestCount := 0
	for r, n := range counts {
		if n > bestCount || (n == bestCount && bestCount > 0 && r < best) {
			best, bestCount = r, n
		}
	}
	return best
}
