package parser

import (
	"strings"

	"github.com/expenselens/walletledger/internal/models"
)

// fingerprint is one lexical rule for identifying a statement vendor: the
// statement matches when every phrase in All appears in the lowercased text.
type fingerprint struct {
	stype models.StatementType
	all   []string
}

// fingerprints are checked in order; the first full match wins. Strong
// vendor-branded rules come first, weaker boilerplate-only fallbacks last.
// Supporting a new vendor layout means appending rows here (and writing an
// extractor), not adding code paths. The dual-extractor fallback in Extract
// covers layouts this table does not know yet.
var fingerprints = []fingerprint{
	{models.StatementPhonePe, []string{"phonepe"}},
	{models.StatementPhonePe, []string{"debit", "transaction id", "paid to"}},
	{models.StatementGPay, []string{"upi transaction id"}},
	{models.StatementGPay, []string{"transaction statement period"}},
	{models.StatementGPay, []string{"google pay"}},
	{models.StatementGPay, []string{"paid to", "upi transaction id"}},
	{models.StatementPhonePe, []string{"debit", "paid to"}},
}

// Detect inspects normalized statement text for vendor fingerprints and
// returns the statement type, or StatementUnknown when nothing matches.
func Detect(text string) models.StatementType {
	lower := strings.ToLower(text)
	for _, fp := range fingerprints {
		if containsAll(lower, fp.all) {
			return fp.stype
		}
	}
	return models.StatementUnknown
}

func containsAll(text string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(text, needle) {
			return false
		}
	}
	return true
}
