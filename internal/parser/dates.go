package parser

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are the vendor date-token formats observed across statements,
// tried in order.
var dateLayouts = []string{
	"Jan 2, 2006",
	"2 Jan, 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"2 January, 2006",
	"January 2, 2006",
}

// permissiveLayouts are a wider net for tokens the vendor formats miss,
// tried only after the fixed list fails.
var permissiveLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2006/01/02",
	"2 Jan 2006 15:04",
	"Jan 2 2006 15:04",
}

var (
	// timeSuffixPattern strips a trailing time-of-day like ", 8:19 pm".
	timeSuffixPattern = regexp.MustCompile(`(?i)[,\s]+\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?$`)
	// fourLetterMonth rewrites "Sept" to the canonical 3-letter form Go's
	// time package understands. Screenshots use it constantly.
	fourLetterMonth = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)t?[a-z]*\b`)
)

// NormalizeDate parses a vendor-formatted date token into canonical
// YYYY-MM-DD form. Unparseable tokens yield ""; the caller keeps the entry
// anyway, because financial rows must not be dropped over a bad date.
func NormalizeDate(token string) string {
	token = CollapseSpaces(token)
	if token == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// Permissive pass: drop a trailing clock time, shorten month names like
	// "Sept"/"September", then retry everything.
	loose := timeSuffixPattern.ReplaceAllString(token, "")
	loose = fourLetterMonth.ReplaceAllStringFunc(loose, func(m string) string {
		return canonicalMonth(m)
	})
	loose = CollapseSpaces(loose)

	for _, layout := range append(append([]string{}, dateLayouts...), permissiveLayouts...) {
		if t, err := time.Parse(layout, loose); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func canonicalMonth(m string) string {
	if len(m) < 3 {
		return m
	}
	return strings.ToUpper(m[:1]) + strings.ToLower(m[1:3])
}
