package archive

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	ledger "ledger-cloud/internal/ledger/domain"
)

// Ledger exports use the Czech locale: semicolon-separated columns, comma as
// decimal separator, space as thousands separator.

var expensesLedgerHeader = []string{"Datum", "Částka", "DPH", "Kategorie", "Popis", "Doklad"}

var invoicesLedgerHeader = []string{"Číslo", "Klient", "Vystaveno", "Splatnost", "Základ", "DPH", "Celkem", "Stav", "DIČ"}

// writeExpensesLedger writes the expenses ledger: header, one row per
// expense, trailing totals row. An empty period still yields the header and
// a zero-valued totals row.
func writeExpensesLedger(w io.Writer, expenses []ledger.Expense) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(expensesLedgerHeader); err != nil {
		return err
	}
	var totalAmount, totalVAT float64
	for _, exp := range expenses {
		receipt := "ne"
		if exp.ReceiptPath != "" {
			receipt = "ano"
		}
		row := []string{
			exp.Date.Format("02.01.2006"),
			formatAmount(exp.Amount),
			formatAmount(exp.VATAmount),
			exp.Category,
			exp.Description,
			receipt,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		totalAmount += exp.Amount
		totalVAT += exp.VATAmount
	}
	totals := []string{"Celkem", formatAmount(totalAmount), formatAmount(totalVAT), "", "", ""}
	if err := writer.Write(totals); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// writeInvoicesLedger writes the invoices ledger: header, one row per
// invoice, trailing totals row.
func writeInvoicesLedger(w io.Writer, invoices []ledger.Invoice) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(invoicesLedgerHeader); err != nil {
		return err
	}
	var totalSubtotal, totalVAT, totalTotal float64
	for _, inv := range invoices {
		row := []string{
			inv.Number,
			inv.ClientName,
			inv.IssueDate.Format("02.01.2006"),
			inv.DueDate.Format("02.01.2006"),
			formatAmount(inv.Subtotal),
			formatAmount(inv.VATAmount),
			formatAmount(inv.Total),
			inv.StatusLabel(),
			inv.ClientVATNumber,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		totalSubtotal += inv.Subtotal
		totalVAT += inv.VATAmount
		totalTotal += inv.Total
	}
	totals := []string{
		"Celkem", "", "", "",
		formatAmount(totalSubtotal),
		formatAmount(totalVAT),
		formatAmount(totalTotal),
		"", "",
	}
	if err := writer.Write(totals); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// formatAmount renders an amount as e.g. "10 000,00".
func formatAmount(value float64) string {
	negative := value < 0
	fixed := strconv.FormatFloat(math.Abs(value), 'f', 2, 64)
	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(digit)
	}
	result := grouped.String() + "," + fracPart
	if negative {
		return "-" + result
	}
	return result
}
