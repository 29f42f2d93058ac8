package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/expenselens/walletledger/internal/category"
	"github.com/expenselens/walletledger/internal/expense"
	"github.com/expenselens/walletledger/internal/ledger"
)

// newTestApp wires a fiber app with no identity database: requireUser then
// accepts any non-empty user string, which keeps these tests on the HTTP
// surface rather than account management.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := log.New(os.Stderr)
	store, err := ledger.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatal(err)
	}
	processor := expense.NewProcessor(store, category.NewClassifier(), logger)

	app := fiber.New()
	New(processor, nil, t.TempDir(), logger).Register(app)
	return app
}

func formRequest(method, target string, form url.Values) *http.Request {
	req, _ := http.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleHealth(t *testing.T) {
	app := newTestApp(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestHandleStatementText(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"user": {"alice"},
		"text": {"06 Sep, 2025  Paid to McDonalds  UPI Transaction ID 520987654321  ₹68.98"},
	}
	resp, err := app.Test(formRequest(http.MethodPost, "/api/statement", form))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status: got %d, body %s", resp.StatusCode, body)
	}

	var out struct {
		OK     bool `json:"ok"`
		Result struct {
			Added     int `json:"added"`
			Total     int `json:"total"`
			Extracted int `json:"extracted"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.OK || out.Result.Added != 1 || out.Result.Total != 1 {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestHandleStatementRequiresUser(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"text": {"whatever"}}
	resp, err := app.Test(formRequest(http.MethodPost, "/api/statement", form))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestHandleStatementRequiresBody(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"user": {"alice"}}
	resp, err := app.Test(formRequest(http.MethodPost, "/api/statement", form))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestHandleScreenshot(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"user": {"alice"},
		"text": {"To McDonalds ₹68.98 Payment Completed 27 Sept 2025, 8:19 pm"},
	}
	resp, err := app.Test(formRequest(http.MethodPost, "/api/screenshot", form))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var out struct {
		Entry struct {
			Amount   float64 `json:"amount"`
			Category string  `json:"category"`
		} `json:"entry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Entry.Amount != 68.98 {
		t.Errorf("amount: got %v, want 68.98", out.Entry.Amount)
	}
	if out.Entry.Category != "Food" {
		t.Errorf("category: got %q, want Food", out.Entry.Category)
	}
}

func TestHandleScreenshotRequiresText(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"user": {"alice"}}
	resp, err := app.Test(formRequest(http.MethodPost, "/api/screenshot", form))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestHandleDashboard(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"user": {"alice"},
		"text": {"06 Sep, 2025  Paid to McDonalds  UPI Transaction ID 520987654321  ₹68.98"},
	}
	if _, err := app.Test(formRequest(http.MethodPost, "/api/statement", form)); err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/dashboard?user=alice", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var out struct {
		Total    float64  `json:"total"`
		Months   []string `json:"months"`
		Forecast float64  `json:"forecast"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 68.98 {
		t.Errorf("total: got %v, want 68.98", out.Total)
	}
	if len(out.Months) != 1 || out.Months[0] != "Sep" {
		t.Errorf("months: got %v", out.Months)
	}
}

func TestHandleForecast(t *testing.T) {
	app := newTestApp(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/forecast", nil)
	req.Header.Set("X-User", "alice")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"forecast":0`) {
		t.Errorf("unexpected body: %s", body)
	}
}
