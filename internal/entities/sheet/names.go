package sheet

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeName returns the comparison key for a display name.
// Names match when they are equal after trimming and case folding.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// SameName reports whether two display names refer to the same thing
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// ParseRating parses a text rating. Empty or unparseable text is 0 and
// fractional values are truncated.
func ParseRating(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// FormatNumber renders a number without trailing zeros ("7", "3.5")
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
