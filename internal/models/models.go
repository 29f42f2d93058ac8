package models

import "strconv"

// Transaction is a single debit extracted from a statement or screenshot,
// before categorization. Date holds the vendor-formatted token exactly as it
// appeared in the source text (e.g. "06 Sep, 2025" or "Sept 27, 2025").
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// LedgerEntry is the unit of persistence: a categorized transaction plus the
// normalized calendar date. ParsedDate is "" when no known format matched the
// raw token; the entry is kept anyway.
type LedgerEntry struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Category    Category `json:"category"`
	ParsedDate  string   `json:"parsedDate,omitempty"` // YYYY-MM-DD or ""
}

// Key returns the composite dedup key for a ledger entry. Two entries with
// the same key are the same transaction.
func (e LedgerEntry) Key() string {
	return e.Date + "\x1f" + strconv.FormatFloat(e.Amount, 'f', 2, 64) + "\x1f" + e.Description
}

// Category is one of the fixed spend categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryEntertainment Category = "Entertainment"
	CategoryGroceries     Category = "Groceries"
	CategoryTransport     Category = "Transport"
	CategoryBills         Category = "Bills"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryClothes       Category = "Clothes"
	CategoryTravel        Category = "Travel"
	CategoryOthers        Category = "Others"
)

// Categories lists every category in declaration order. CategoryOthers is
// both the default and the explicit bucket for person-to-person transfers.
var Categories = []Category{
	CategoryFood,
	CategoryEntertainment,
	CategoryGroceries,
	CategoryTransport,
	CategoryBills,
	CategoryShopping,
	CategoryHealth,
	CategoryClothes,
	CategoryTravel,
	CategoryOthers,
}

// StatementType identifies which wallet vendor produced a statement's layout.
type StatementType string

const (
	StatementPhonePe StatementType = "phonepe"
	StatementGPay    StatementType = "gpay"
	StatementUnknown StatementType = "unknown"
)

// AppendResult summarizes a single append-transactions operation.
type AppendResult struct {
	Added     int `json:"added"`
	Total     int `json:"total"`
	Extracted int `json:"extracted"`
}

// MonthlyPivot maps 3-letter month names (calendar order, only months
// present) to per-category spend totals. Derived from a ledger on demand,
// never persisted.
type MonthlyPivot struct {
	Months []string
	Totals map[string]map[Category]float64
}

// MonthTotal returns the summed spend across all categories for one month.
func (p *MonthlyPivot) MonthTotal(month string) float64 {
	var sum float64
	for _, v := range p.Totals[month] {
		sum += v
	}
	return sum
}

// Series returns the per-month totals in calendar order.
func (p *MonthlyPivot) Series() []float64 {
	out := make([]float64, len(p.Months))
	for i, m := range p.Months {
		out[i] = p.MonthTotal(m)
	}
	return out
}
