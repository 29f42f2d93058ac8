// Package ocr turns noisy screenshot OCR text into a best-guess transaction
// amount. Screenshots carry exactly one transaction but the recognized text
// is full of look-alike numbers (UTRs, account tails, timestamps), so every
// numeric substring is scored by its surrounding context and the winner is
// taken. No plausible candidate means 0.0; a false negative is preferred
// over booking an ID as an amount.
package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// groupingNoise matches a digit followed by stray separators before
	// exactly three more digits that are not followed by a further digit.
	// OCR inserts spurious separators inside amounts: "7 ,076" → "7076".
	groupingNoise = regexp.MustCompile(`(\d)[\s.,]+(\d{3})([^0-9]|$)`)

	// leadingMisread matches a spurious leading 7/8 glued onto a
	// three-digit-dot-two-digit amount with no digit before it. A known
	// Tesseract confusion; see repairText for when it is applied.
	leadingMisread = regexp.MustCompile(`(^|[^0-9])[78](\d{3}\.\d{2})`)

	// candidatePattern matches 2–7 digit substrings with an optional
	// 1–2 digit decimal part, rejecting partial matches inside longer
	// numbers via the surrounding-character groups.
	candidatePattern = regexp.MustCompile(`(^|[^0-9.])(\d{2,7}(?:\.\d{1,2})?)([^0-9]|$)`)

	wordID  = regexp.MustCompile(`\bid\b`)
	wordUTR = regexp.MustCompile(`\butr\b`)
	wordRef = regexp.MustCompile(`\bref\b`)
	wordUPI = regexp.MustCompile(`\bupi\b`)
	wordRs  = regexp.MustCompile(`\brs\b`)
	wordINR = regexp.MustCompile(`\binr\b`)
)

// Plausible consumer-transaction range. Values outside it are never
// candidates, whatever their context scores.
const (
	minAmount = 10
	maxAmount = 100000
)

// paymentCues affirm that a number is the paid amount.
var paymentCues = []string{"paid", "payment", "successful", "completed", "₹"}

// identifierCues suggest a number is an ID, reference or account tail.
var identifierCues = []string{"account", "xx"}

// bankTokens are bank names that routinely precede account tails in
// payment-confirmation screenshots.
var bankTokens = []string{"bank", "sbi", "hdfc", "icici", "axis", "canara", "kotak", "pnb"}

// windowRadius is how many characters of context on each side of a
// candidate feed its score.
const windowRadius = 40

// EstimateAmount scans OCR text for the most likely transaction amount.
// Returns 0.0 when no candidate survives range filtering.
func EstimateAmount(text string) float64 {
	repaired := repairText(text)

	best := 0.0
	bestScore := 0
	found := false
	for _, c := range findCandidates(repaired) {
		if c.value < minAmount || c.value > maxAmount {
			continue
		}
		s := scoreCandidate(c.token, window(repaired, c.start, c.end))
		// Ties break toward the larger value: amounts tend to dwarf the
		// digit fragments that survive range filtering.
		if !found || s > bestScore || (s == bestScore && c.value > best) {
			best = c.value
			bestScore = s
			found = true
		}
	}
	if !found {
		return 0.0
	}
	return best
}

// repairText runs the OCR corruption repairs in a fixed order: whitespace
// collapse, digit-grouping collapse, then the narrow leading-digit strip.
//
// The leading-digit strip is only applied when the same text showed
// whitespace-corrupted grouping, because on clean text it would rewrite a
// genuine 7000–8999 amount with two decimals. That false-positive risk is
// inherent to the misread pattern; the gate keeps it contained rather than
// widening the repair.
func repairText(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")

	sawSpacingNoise := false
	for {
		loc := groupingNoise.FindStringSubmatchIndex(text)
		if loc == nil {
			break
		}
		if strings.ContainsAny(text[loc[3]:loc[4]], " \t") {
			sawSpacingNoise = true
		}
		text = text[:loc[3]] + text[loc[4]:loc[5]] + text[loc[5]:]
	}

	if sawSpacingNoise {
		text = leadingMisread.ReplaceAllString(text, "$1$2")
	}
	return text
}

type candidate struct {
	token      string
	value      float64
	start, end int
}

func findCandidates(text string) []candidate {
	var out []candidate
	offset := 0
	for offset < len(text) {
		loc := candidatePattern.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		start, end := offset+loc[4], offset+loc[5]
		token := text[start:end]
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			out = append(out, candidate{token: token, value: v, start: start, end: end})
		}
		// Resume right after the number so an adjacent candidate separated
		// by a single non-digit is still seen.
		offset = end
	}
	return out
}

// scoreCandidate is a pure function over a candidate token and its context
// window. Payment-affirming cues push the score up, identifier cues push it
// down, and grouping/decimal punctuation in the token itself adds a little;
// real amounts are written with separators, bare IDs are not.
func scoreCandidate(token, rawWindow string) int {
	w := strings.ToLower(rawWindow)
	score := 0

	if containsAnyCue(w, paymentCues) || wordUPI.MatchString(w) || wordRs.MatchString(w) || wordINR.MatchString(w) {
		score += 40
	}
	if containsAnyCue(w, identifierCues) || containsAnyCue(w, bankTokens) ||
		wordID.MatchString(w) || wordUTR.MatchString(w) || wordRef.MatchString(w) {
		score -= 40
	}
	if strings.ContainsAny(token, ".,") {
		score += 10
	}
	return score
}

func containsAnyCue(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

func window(text string, start, end int) string {
	lo := start - windowRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + windowRadius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
