package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"
)

// FoldString returns s NFKC-normalized and case folded, for caseless matching.
// Full-width letters and compatibility forms fold to their plain equivalents.
func FoldString(s string) string {
	// a Caser keeps state, so one per call
	return cases.Fold().String(norm.NFKC.String(s))
}

// ContainsFold checks if s contains substr, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(FoldString(s), FoldString(substr))
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
