package ledger

import (
	"math"
	"time"
)

// Expense is a recorded cost. Amount is the total paid including VAT;
// VATAmount is the stored VAT portion. ExchangeRate is the frozen rate to
// the base currency captured when the expense was recorded.
type Expense struct {
	ID           string
	Date         time.Time
	Amount       float64
	VATAmount    float64
	Category     string
	Description  string
	Currency     string
	ExchangeRate float64
	ReceiptPath  string
	CreatedAt    time.Time
}

// DerivedVATRate is the canonical VAT rate of an expense: recomputed from the
// stored amounts on every read, never persisted. Rounded to one decimal so
// that equal statutory rates key the same aggregation bucket.
func (e Expense) DerivedVATRate() float64 {
	if e.Amount <= 0 {
		return 0
	}
	return math.Round(e.VATAmount/e.Amount*1000) / 10
}

// BaseAmount returns the VAT base of the expense.
func (e Expense) BaseAmount() float64 {
	return e.Amount - e.VATAmount
}
