// Package analysis pivots a ledger into month-by-category spend totals and
// produces a next-period total-spend estimate.
package analysis

import (
	"time"

	"github.com/expenselens/walletledger/internal/models"
)

// monthOrder is the calendar order used to sort pivot rows.
var monthOrder = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// PrepareMonthly pivots ledger entries into per-month, per-category spend
// sums. Entries without a normalized date are skipped: there is no month
// to attribute them to. Months appear in calendar order, restricted to
// months actually present. The pivot is derived on demand, never persisted.
func PrepareMonthly(entries []models.LedgerEntry) *models.MonthlyPivot {
	totals := make(map[string]map[models.Category]float64)
	for _, e := range entries {
		if e.ParsedDate == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", e.ParsedDate)
		if err != nil {
			continue
		}
		month := t.Format("Jan")
		if totals[month] == nil {
			totals[month] = make(map[models.Category]float64)
		}
		totals[month][e.Category] += e.Amount
	}

	var months []string
	for _, m := range monthOrder {
		if _, ok := totals[m]; ok {
			months = append(months, m)
		}
	}
	return &models.MonthlyPivot{Months: months, Totals: totals}
}
