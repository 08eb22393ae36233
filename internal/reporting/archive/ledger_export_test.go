package archive

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	ledger "ledger-cloud/internal/ledger/domain"
)

func parseSemicolonCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "0,00"},
		{1234.5, "1 234,50"},
		{10000, "10 000,00"},
		{1234567.89, "1 234 567,89"},
		{-2500.4, "-2 500,40"},
		{999, "999,00"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.value); got != tc.want {
			t.Errorf("formatAmount(%v): expected %q, got %q", tc.value, tc.want, got)
		}
	}
}

func TestWriteExpensesLedger(t *testing.T) {
	expenses := []ledger.Expense{
		{
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:      1500,
			VATAmount:   315,
			Category:    "kancelář",
			Description: "papír",
			ReceiptPath: "receipts/exp-1.pdf",
		},
		{
			Date:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			Amount:      10000,
			VATAmount:   2100,
			Category:    "software",
			Description: "licence",
		},
	}

	var buf bytes.Buffer
	if err := writeExpensesLedger(&buf, expenses); err != nil {
		t.Fatalf("write ledger: %v", err)
	}
	rows := parseSemicolonCSV(t, buf.Bytes())
	if len(rows) != 4 {
		t.Fatalf("expected header + 2 rows + totals, got %d rows", len(rows))
	}
	if rows[0][0] != "Datum" || rows[0][5] != "Doklad" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "05.01.2024" || rows[1][1] != "1 500,00" || rows[1][5] != "ano" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][5] != "ne" {
		t.Fatalf("missing receipt must read ne: %v", rows[2])
	}
	totals := rows[3]
	if totals[0] != "Celkem" || totals[1] != "11 500,00" || totals[2] != "2 415,00" {
		t.Fatalf("unexpected totals row: %v", totals)
	}
}

func TestWriteExpensesLedgerEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExpensesLedger(&buf, nil); err != nil {
		t.Fatalf("write ledger: %v", err)
	}
	rows := parseSemicolonCSV(t, buf.Bytes())
	if len(rows) != 2 {
		t.Fatalf("empty period must still yield header and totals, got %d rows", len(rows))
	}
	if rows[1][0] != "Celkem" || rows[1][1] != "0,00" {
		t.Fatalf("unexpected totals row: %v", rows[1])
	}
}

func TestWriteInvoicesLedger(t *testing.T) {
	invoices := []ledger.Invoice{
		{
			Number:          "2024-0001",
			ClientName:      "Novák s.r.o.",
			ClientVATNumber: "CZ12345678",
			IssueDate:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			DueDate:         time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
			Subtotal:        10000,
			VATAmount:       2100,
			Total:           12100,
			Status:          ledger.InvoiceStatusPaid,
		},
	}

	var buf bytes.Buffer
	if err := writeInvoicesLedger(&buf, invoices); err != nil {
		t.Fatalf("write ledger: %v", err)
	}
	rows := parseSemicolonCSV(t, buf.Bytes())
	if len(rows) != 3 {
		t.Fatalf("expected header + row + totals, got %d", len(rows))
	}
	row := rows[1]
	if row[0] != "2024-0001" || row[2] != "10.01.2024" || row[3] != "24.01.2024" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[6] != "12 100,00" || row[7] != "Zaplaceno" {
		t.Fatalf("unexpected amounts or status: %v", row)
	}
	if !strings.HasPrefix(rows[2][0], "Celkem") {
		t.Fatalf("missing totals row: %v", rows[2])
	}
}
