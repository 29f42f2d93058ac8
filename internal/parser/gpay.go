package parser

import (
	"regexp"

	"github.com/expenselens/walletledger/internal/models"
)

// GPayExtractor handles Google Pay UPI transaction statements.
//
// GPay statements list one block per transaction:
//
//	06 Sep, 2025 08:15 pm  Paid to McDonalds  UPI Transaction ID 1234...  ₹68.98
//
// Date format: DD Mon, YYYY with an optional time-of-day run after it.
type GPayExtractor struct{}

func (e *GPayExtractor) VendorName() string {
	return "Google Pay"
}

// gpayTxnPattern matches a whole transaction block in one pass: date, an
// optional time run, "Paid to" description, the UPI transaction id
// boilerplate and finally the rupee amount. Blocks that do not match the
// full pattern are discarded, not repaired.
var gpayTxnPattern = regexp.MustCompile(
	`(?is)(\d{1,2}\s\w{3,9},\s20\d{2})\s+[\d:APMapm\s]*\s*Paid to\s(.+?)\s+` +
		`UPI Transaction ID[:\sA-Za-z0-9\-]*.*?₹\s*([\d,]+(?:\.\d{1,2})?)`,
)

func (e *GPayExtractor) Extract(text string) []models.Transaction {
	var txns []models.Transaction
	for _, m := range gpayTxnPattern.FindAllStringSubmatch(text, -1) {
		amount, err := parseAmount(m[3])
		if err != nil {
			continue
		}
		txns = append(txns, models.Transaction{
			Date:        CollapseSpaces(m[1]),
			Description: CollapseSpaces(m[2]),
			Amount:      amount,
		})
	}
	return txns
}
