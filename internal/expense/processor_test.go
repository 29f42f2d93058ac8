package expense

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/expenselens/walletledger/internal/category"
	"github.com/expenselens/walletledger/internal/ledger"
	"github.com/expenselens/walletledger/internal/models"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	logger := log.New(os.Stderr)
	store, err := ledger.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatal(err)
	}
	return NewProcessor(store, category.NewClassifier(), logger)
}

const gpayStatement = "06 Sep, 2025  Paid to McDonalds  UPI Transaction ID 520987654321  ₹68.98\n" +
	"07 Sep, 2025  Paid to Amazon  UPI Transaction ID 520987654399  ₹1,249.00"

func TestAppendStatement(t *testing.T) {
	p := newTestProcessor(t)

	res, err := p.AppendStatement("alice", gpayStatement, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 2 || res.Total != 2 || res.Extracted != 2 {
		t.Fatalf("first append: got %+v", res)
	}

	entries := p.store.Read("alice")
	if len(entries) != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", len(entries))
	}
	if entries[0].Category != models.CategoryFood {
		t.Errorf("McDonalds category: got %q, want Food", entries[0].Category)
	}
	if entries[0].ParsedDate != "2025-09-06" {
		t.Errorf("normalized date: got %q", entries[0].ParsedDate)
	}
	if entries[1].Category != models.CategoryShopping {
		t.Errorf("Amazon category: got %q, want Shopping", entries[1].Category)
	}
}

func TestAppendStatementIdempotent(t *testing.T) {
	p := newTestProcessor(t)

	first, err := p.AppendStatement("alice", gpayStatement, true)
	if err != nil {
		t.Fatal(err)
	}
	if first.Added == 0 {
		t.Fatal("first upload added nothing")
	}

	second, err := p.AppendStatement("alice", gpayStatement, true)
	if err != nil {
		t.Fatal(err)
	}
	if second.Added != 0 {
		t.Errorf("re-uploaded statement added %d entries, want 0", second.Added)
	}
	if second.Total != first.Total {
		t.Errorf("total changed on re-upload: %d -> %d", first.Total, second.Total)
	}
}

func TestAppendStatementWhitespaceVariantIsDuplicate(t *testing.T) {
	p := newTestProcessor(t)

	if _, err := p.AppendStatement("alice", gpayStatement, true); err != nil {
		t.Fatal(err)
	}

	// The same transactions with ragged spacing around the payee normalize
	// to the same descriptions and must not grow the ledger.
	ragged := "06 Sep, 2025  Paid to   McDonalds   UPI Transaction ID 520987654321  ₹68.98\n" +
		"07 Sep, 2025  Paid to \t Amazon  UPI Transaction ID 520987654399  ₹1,249.00"
	res, err := p.AppendStatement("alice", ragged, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 0 || res.Total != 2 {
		t.Errorf("got %+v, want no growth", res)
	}
}

func TestAppendStatementZeroTransactions(t *testing.T) {
	p := newTestProcessor(t)

	if _, err := p.AppendStatement("alice", gpayStatement, true); err != nil {
		t.Fatal(err)
	}
	res, err := p.AppendStatement("alice", "an unrelated document with no transactions", true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Extracted != 0 || res.Added != 0 {
		t.Errorf("got %+v, want zero extracted and added", res)
	}
	if res.Total != 2 {
		t.Errorf("total: got %d, want the current ledger size 2", res.Total)
	}
}

func TestAppendScreenshot(t *testing.T) {
	p := newTestProcessor(t)

	text := "To McDonalds ₹68.98 Payment Completed 27 Sept 2025, 8:19 pm"
	entry, res, err := p.AppendScreenshot("alice", text)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Amount != 68.98 {
		t.Errorf("amount: got %v, want 68.98", entry.Amount)
	}
	if entry.Category != models.CategoryFood {
		t.Errorf("category: got %q, want Food", entry.Category)
	}
	if entry.ParsedDate == "" {
		t.Error("screenshot entry must carry the capture date")
	}
	if res.Added != 1 || res.Total != 1 {
		t.Errorf("result: got %+v", res)
	}
}

func TestAppendScreenshotUnreadableAmount(t *testing.T) {
	p := newTestProcessor(t)

	entry, _, err := p.AppendScreenshot("alice", "Payment successful")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Amount != 0.0 {
		t.Errorf("unreadable amount must record 0.0, got %v", entry.Amount)
	}
}

func TestSummarize(t *testing.T) {
	p := newTestProcessor(t)
	if _, err := p.AppendStatement("alice", gpayStatement, true); err != nil {
		t.Fatal(err)
	}

	s := p.Summarize("alice")
	if math.Abs(s.Total-1317.98) > 0.001 {
		t.Errorf("total: got %v, want 1317.98", s.Total)
	}
	if s.Categories[models.CategoryFood] != 1 || s.Categories[models.CategoryShopping] != 1 {
		t.Errorf("category counts: got %v", s.Categories)
	}
	if len(s.Months) != 1 || s.Months[0] != "Sep" {
		t.Errorf("months: got %v", s.Months)
	}
	if len(s.Top) != 2 || s.Top[0].Description != "Amazon" {
		t.Errorf("top entries: got %+v", s.Top)
	}
	if math.Abs(s.Forecast-1317.98) > 0.001 {
		t.Errorf("single-month forecast: got %v, want the month total", s.Forecast)
	}
}

func TestSummarizeEmptyIdentity(t *testing.T) {
	p := newTestProcessor(t)

	s := p.Summarize("nobody")
	if s.Total != 0 || len(s.Entries) != 0 || s.Forecast != 0 {
		t.Errorf("empty summary: got %+v", s)
	}
}

func TestScreenshotDescriptionTruncated(t *testing.T) {
	p := newTestProcessor(t)

	long := strings.Repeat("Payment to a very wordy merchant ", 20) + "₹68.98 paid"
	entry, _, err := p.AppendScreenshot("alice", long)
	if err != nil {
		t.Fatal(err)
	}
	if len(entry.Description) > 200 {
		t.Errorf("description not truncated: %d chars", len(entry.Description))
	}
}
