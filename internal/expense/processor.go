// Package expense wires the extraction, categorization, date normalization,
// merge and analysis stages into the operations callers actually invoke.
package expense

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/expenselens/walletledger/internal/analysis"
	"github.com/expenselens/walletledger/internal/category"
	"github.com/expenselens/walletledger/internal/ledger"
	"github.com/expenselens/walletledger/internal/models"
	"github.com/expenselens/walletledger/internal/ocr"
	"github.com/expenselens/walletledger/internal/parser"
)

// Processor runs the statement and screenshot pipelines against a ledger
// store. It is stateless between invocations; everything persistent lives
// in the store.
type Processor struct {
	store      *ledger.Store
	classifier *category.Classifier
	logger     *log.Logger
}

// NewProcessor creates a processor over the given store and classifier.
func NewProcessor(store *ledger.Store, classifier *category.Classifier, logger *log.Logger) *Processor {
	return &Processor{
		store:      store,
		classifier: classifier,
		logger:     logger,
	}
}

// AppendStatement extracts debit transactions from statement text,
// categorizes and dates them, and merges them into the identity's ledger.
// Zero extracted transactions is not a failure: the document is assumed to
// be a valid but empty or irrelevant statement and the current totals are
// reported back.
func (p *Processor) AppendStatement(identity, text string, ignoreDuplicates bool) (models.AppendResult, error) {
	txns, stype := parser.Extract(text)
	p.logger.Info("extracted statement", "identity", identity, "type", stype, "transactions", len(txns))

	existing := p.store.Read(identity)
	if len(txns) == 0 {
		return models.AppendResult{Added: 0, Total: len(existing), Extracted: 0}, nil
	}

	entries := make([]models.LedgerEntry, 0, len(txns))
	for _, t := range txns {
		entries = append(entries, models.LedgerEntry{
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			Category:    p.classifier.Classify(t.Description),
			ParsedDate:  parser.NormalizeDate(t.Date),
		})
	}

	merged, added := ledger.Merge(existing, entries, ignoreDuplicates)
	if err := p.store.Write(identity, merged); err != nil {
		return models.AppendResult{}, fmt.Errorf("failed to persist ledger for %q: %w", identity, err)
	}

	result := models.AppendResult{Added: added, Total: len(merged), Extracted: len(entries)}
	p.logger.Info("merged statement", "identity", identity, "added", result.Added, "total", result.Total)
	return result, nil
}

// AppendScreenshot runs the OCR disambiguation path for a single
// payment-confirmation screenshot's text and appends the resulting entry.
// A missing amount is recorded as 0.0 rather than guessed; the category is
// computed from the text regardless.
func (p *Processor) AppendScreenshot(identity, text string) (models.LedgerEntry, models.AppendResult, error) {
	now := time.Now()
	entry := models.LedgerEntry{
		Date:        now.Format("2006-01-02 15:04:05"),
		Description: summarize(text),
		Amount:      ocr.EstimateAmount(text),
		Category:    p.classifier.Classify(text),
		ParsedDate:  now.Format("2006-01-02"),
	}

	existing := p.store.Read(identity)
	merged, added := ledger.Merge(existing, []models.LedgerEntry{entry}, true)
	if err := p.store.Write(identity, merged); err != nil {
		return models.LedgerEntry{}, models.AppendResult{}, fmt.Errorf("failed to persist ledger for %q: %w", identity, err)
	}

	result := models.AppendResult{Added: added, Total: len(merged), Extracted: 1}
	p.logger.Info("recorded screenshot expense", "identity", identity,
		"amount", entry.Amount, "category", entry.Category)
	return entry, result, nil
}

// Summary is the dashboard view over one identity's ledger.
type Summary struct {
	Total      float64                                `json:"total"`
	Categories map[models.Category]int                `json:"categories"`
	Months     []string                               `json:"months"`
	Monthly    map[string]map[models.Category]float64 `json:"monthly"`
	Top        []models.LedgerEntry                   `json:"top"`
	Forecast   float64                                `json:"forecast"`
	Entries    []models.LedgerEntry                   `json:"entries"`
}

// Summarize builds the dashboard summary for an identity: total spend,
// per-category counts, top-5 largest debits, the monthly pivot and the
// next-month forecast.
func (p *Processor) Summarize(identity string) *Summary {
	entries := p.store.Read(identity)

	s := &Summary{
		Categories: make(map[models.Category]int),
		Entries:    entries,
	}
	for _, e := range entries {
		s.Total += e.Amount
		s.Categories[e.Category]++
	}
	s.Total = roundCents(s.Total)

	top := make([]models.LedgerEntry, len(entries))
	copy(top, entries)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
	if len(top) > 5 {
		top = top[:5]
	}
	s.Top = top

	pivot := analysis.PrepareMonthly(entries)
	s.Months = pivot.Months
	s.Monthly = pivot.Totals
	s.Forecast = analysis.ForecastNext(pivot)
	return s
}

// Forecast returns only the next-month spend estimate for an identity.
func (p *Processor) Forecast(identity string) float64 {
	return analysis.ForecastNext(analysis.PrepareMonthly(p.store.Read(identity)))
}

// summarize trims screenshot text into a one-line ledger description.
func summarize(text string) string {
	desc := parser.CollapseSpaces(text)
	if len(desc) > 200 {
		desc = desc[:200]
	}
	if desc == "" {
		desc = "Screenshot expense"
	}
	return desc
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
