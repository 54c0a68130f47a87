package zen

import (
	"strings"

	"golang.org/x/text/width"
)

// RuneWidth returns 2 for East Asian Fullwidth, Wide and Ambiguous runes and 1
// for everything else.
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianFullwidth, width.EastAsianWide, width.EastAsianAmbiguous:
		return 2
	default:
		return 1
	}
}

// DisplayWidth sums RuneWidth over s.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// Truncate returns the longest prefix of s whose display width does not exceed
// target. A wide rune that would straddle the limit is dropped entirely.
func Truncate(s string, target int) string {
	acc := 0
	for i, r := range s {
		w := RuneWidth(r)
		if acc+w > target {
			return s[:i]
		}
		acc += w
	}
	return s
}

// PadRight left-aligns s in a field of target columns using spaces.
func PadRight(s string, target int) string {
	return PadRightWith(s, target, ' ')
}

// PadRightWith left-aligns s in a field of target columns, cutting s first when
// it is too wide. fill is repeated once per missing column.
func PadRightWith(s string, target int, fill rune) string {
	kept := Truncate(s, target)
	return kept + fillN(fill, target-DisplayWidth(kept))
}

// PadLeft right-aligns s in a field of target columns using spaces.
func PadLeft(s string, target int) string {
	return PadLeftWith(s, target, ' ')
}

// PadLeftWith right-aligns s in a field of target columns, cutting s first when
// it is too wide.
func PadLeftWith(s string, target int, fill rune) string {
	kept := Truncate(s, target)
	return fillN(fill, target-DisplayWidth(kept)) + kept
}

func fillN(fill rune, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(fill), n)
}
