package parser

import (
	"fmt"

	"github.com/expenselens/walletledger/internal/models"
)

// Extractor defines the interface for vendor statement extractors.
type Extractor interface {
	// Extract takes normalized statement text and returns the debit
	// transactions it can pattern-match. Zero matches is not an error.
	Extract(text string) []models.Transaction
	// VendorName returns the human-readable wallet vendor name.
	VendorName() string
}

// New returns the extractor for the given statement type.
func New(stype models.StatementType) (Extractor, error) {
	switch stype {
	case models.StatementPhonePe:
		return &PhonePeExtractor{}, nil
	case models.StatementGPay:
		return &GPayExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported statement type: %q", stype)
	}
}

// Extract detects the statement type and runs the matching extractor.
// When the type cannot be detected it runs every extractor and unions the
// results: an unrecognized layout degrades to a best-effort pass, never to
// an error.
func Extract(raw string) ([]models.Transaction, models.StatementType) {
	text := NormalizeText(raw)
	stype := Detect(text)

	var txns []models.Transaction
	switch stype {
	case models.StatementPhonePe:
		txns = (&PhonePeExtractor{}).Extract(text)
	case models.StatementGPay:
		txns = (&GPayExtractor{}).Extract(text)
	default:
		txns = append((&GPayExtractor{}).Extract(text), (&PhonePeExtractor{}).Extract(text)...)
	}

	// Only debits are kept; anything non-positive slipped past a lexical
	// guard and is dropped here rather than recorded as a refund.
	kept := txns[:0]
	for _, t := range txns {
		if t.Amount > 0 {
			kept = append(kept, t)
		}
	}
	return kept, stype
}
