package parser

import "testing"

func TestGPayExtract(t *testing.T) {
	e := &GPayExtractor{}

	tests := []struct {
		name     string
		text     string
		expected []struct {
			date, desc string
			amount     float64
		}
	}{
		{
			name: "single transaction with time of day",
			text: "06 Sep, 2025 08:15 pm  Paid to McDonalds  UPI Transaction ID 520987654321  ₹68.98",
			expected: []struct {
				date, desc string
				amount     float64
			}{
				{"06 Sep, 2025", "McDonalds", 68.98},
			},
		},
		{
			name: "multiple transactions with grouped amounts",
			text: "06 Sep, 2025  Paid to McDonalds  UPI Transaction ID 520987654321  ₹68.98\n" +
				"07 Sep, 2025  Paid to Amazon Pay  UPI Transaction ID 520987654399  ₹1,249.00",
			expected: []struct {
				date, desc string
				amount     float64
			}{
				{"06 Sep, 2025", "McDonalds", 68.98},
				{"07 Sep, 2025", "Amazon Pay", 1249.00},
			},
		},
		{
			name: "block spanning multiple lines",
			text: "27 September, 2025\n9:41 am\nPaid to Swiggy\nUPI Transaction ID: 5209-8765-4321\nAmount ₹ 310.50",
			expected: []struct {
				date, desc string
				amount     float64
			}{
				{"27 September, 2025", "Swiggy", 310.50},
			},
		},
		{
			name:     "received money is not a debit block",
			text:     "06 Sep, 2025  Received from Ravi  UPI Transaction ID 520987654321  ₹500.00",
			expected: nil,
		},
		{
			name:     "no transactions",
			text:     "Transaction statement period 01 Sep 2025 - 30 Sep 2025",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := e.Extract(tt.text)
			if len(txns) != len(tt.expected) {
				t.Fatalf("expected %d transactions, got %d", len(tt.expected), len(txns))
			}
			for i, want := range tt.expected {
				got := txns[i]
				if got.Date != want.date {
					t.Errorf("txn %d date: got %q, want %q", i, got.Date, want.date)
				}
				if got.Description != want.desc {
					t.Errorf("txn %d description: got %q, want %q", i, got.Description, want.desc)
				}
				if got.Amount != want.amount {
					t.Errorf("txn %d amount: got %v, want %v", i, got.Amount, want.amount)
				}
			}
		})
	}
}
