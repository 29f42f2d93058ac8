package parser

import (
	"regexp"
	"strings"

	"github.com/expenselens/walletledger/internal/models"
)

// PhonePeExtractor handles PhonePe transaction statements.
//
// PhonePe statements start each transaction with a date line and mark the
// direction with DEBIT/CREDIT on a following line:
//
//	Sep 06, 2025
//	08:15 pm
//	DEBIT ₹68.98
//	Paid to McDonalds
//	Transaction ID T2509...
//
// The document is split on date lines; only blocks carrying an explicit
// DEBIT marker are kept.
type PhonePeExtractor struct{}

func (e *PhonePeExtractor) VendorName() string {
	return "PhonePe"
}

var (
	// phonepeDatePattern marks transaction block boundaries: "Sep 06, 2025".
	phonepeDatePattern = regexp.MustCompile(`(?i)([A-Za-z]{3,9}\s\d{1,2},\s20\d{2})`)
	// phonepeDebitPattern keeps expense blocks only.
	phonepeDebitPattern = regexp.MustCompile(`(?i)\bDEBIT\b`)
	// phonepeAmountPattern matches the first rupee amount in a block.
	phonepeAmountPattern = regexp.MustCompile(`₹\s*([\d,]+(?:\.\d{1,2})?)`)
	// phonepeDescPattern pulls the payee from "Paid to ..." up to the next
	// boilerplate marker.
	phonepeDescPattern = regexp.MustCompile(`(?is)Paid to:?\s*(.+?)(?:Transaction ID|UTR No|$)`)
)

func (e *PhonePeExtractor) Extract(text string) []models.Transaction {
	var txns []models.Transaction
	for _, blk := range splitOnDates(text) {
		if !phonepeDebitPattern.MatchString(blk.body) {
			continue
		}

		amtLoc := phonepeAmountPattern.FindStringSubmatchIndex(blk.body)
		if amtLoc == nil {
			continue
		}
		amount, err := parseAmount(blk.body[amtLoc[2]:amtLoc[3]])
		if err != nil {
			continue
		}

		txns = append(txns, models.Transaction{
			Date:        CollapseSpaces(blk.date),
			Description: CollapseSpaces(extractDescription(blk.body, amtLoc[1])),
			Amount:      amount,
		})
	}
	return txns
}

// dateBlock is one (date line, following text) pair from a statement.
type dateBlock struct {
	date string
	body string
}

// splitOnDates cuts the document at each date line, pairing every date with
// the text that runs up to the next date line (or end of document).
func splitOnDates(text string) []dateBlock {
	locs := phonepeDatePattern.FindAllStringIndex(text, -1)
	blocks := make([]dateBlock, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, dateBlock{
			date: text[loc[0]:loc[1]],
			body: text[loc[1]:end],
		})
	}
	return blocks
}

// extractDescription finds the payee within a kept block: "Paid to ..."
// first, then the first non-empty line after the amount, then the literal
// token "Paid" when the block has nothing usable.
func extractDescription(body string, afterAmount int) string {
	if m := phonepeDescPattern.FindStringSubmatch(body); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			if s := strings.TrimSpace(line); s != "" {
				return s
			}
		}
	}

	for _, line := range strings.Split(body[afterAmount:], "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return "Paid"
}
