package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// whitespaceRun matches any run of whitespace, including newlines once a
// description has been pulled out of a multi-line block.
var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText prepares raw extracted page text for pattern matching:
// non-breaking spaces become plain spaces and Windows line endings are
// unified. Line structure is preserved; the PhonePe extractor depends on it.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text
}

// CollapseSpaces squeezes all whitespace runs in a description to single
// spaces and trims the ends.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// parseAmount converts a string like "1,234.56" or "₹ 1,234.56" to a
// float64. Vendor boilerplate occasionally interleaves currency-like tokens
// that are not amounts; callers drop tokens that fail coercion instead of
// treating them as errors.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space

	if s == "" || s == "-" {
		return 0, nil
	}

	return strconv.ParseFloat(s, 64)
}
