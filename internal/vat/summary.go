package vat

import (
	ledger "ledger-cloud/internal/ledger/domain"
)

const (
	// StatusToPay marks a period whose net VAT is owed to the tax office.
	StatusToPay = "to_pay"
	// StatusToRefund marks a period whose net VAT is owed back.
	StatusToRefund = "to_refund"
)

// Bucket accumulates amounts for one VAT rate. Buckets are keyed by the exact
// numeric rate encountered; rates outside the statutory set still aggregate
// and are flagged by Check.
type Bucket struct {
	Rate             float64
	BaseAmount       float64
	VATAmount        float64
	TotalAmount      float64
	TransactionCount int
}

// Summary is the per-period VAT position in the base currency.
type Summary struct {
	OutputBuckets map[float64]*Bucket
	InputBuckets  map[float64]*Bucket

	// NetVAT holds output minus input VAT for every rate observed on
	// either side.
	NetVAT map[float64]float64

	OutputVATTotal float64
	InputVATTotal  float64
	NetVATTotal    float64
	Status         string
}

// Aggregate buckets invoices (output VAT) and expenses (input VAT) by rate
// and derives the net position. Cross-currency amounts are converted with the
// record's stored, frozen exchange rate, never a fresh lookup.
func Aggregate(invoices []ledger.Invoice, expenses []ledger.Expense, baseCurrency string) *Summary {
	summary := &Summary{
		OutputBuckets: make(map[float64]*Bucket),
		InputBuckets:  make(map[float64]*Bucket),
		NetVAT:        make(map[float64]float64),
	}

	for _, inv := range invoices {
		factor := frozenFactor(inv.Currency, inv.ExchangeRate, baseCurrency)
		for _, line := range inv.Lines {
			base := line.Base() * factor
			vatAmount := line.VAT() * factor
			bucket := bucketFor(summary.OutputBuckets, line.VATRate)
			bucket.BaseAmount += base
			bucket.VATAmount += vatAmount
			bucket.TotalAmount += base + vatAmount
			bucket.TransactionCount++
		}
	}

	for _, exp := range expenses {
		factor := frozenFactor(exp.Currency, exp.ExchangeRate, baseCurrency)
		base := exp.BaseAmount() * factor
		vatAmount := exp.VATAmount * factor
		bucket := bucketFor(summary.InputBuckets, exp.DerivedVATRate())
		bucket.BaseAmount += base
		bucket.VATAmount += vatAmount
		bucket.TotalAmount += base + vatAmount
		bucket.TransactionCount++
	}

	for rate, bucket := range summary.OutputBuckets {
		summary.NetVAT[rate] = bucket.VATAmount
		summary.OutputVATTotal += bucket.VATAmount
	}
	for rate, bucket := range summary.InputBuckets {
		summary.NetVAT[rate] -= bucket.VATAmount
		summary.InputVATTotal += bucket.VATAmount
	}
	summary.NetVATTotal = summary.OutputVATTotal - summary.InputVATTotal
	if summary.NetVATTotal >= 0 {
		summary.Status = StatusToPay
	} else {
		summary.Status = StatusToRefund
	}
	return summary
}

func bucketFor(buckets map[float64]*Bucket, rate float64) *Bucket {
	if bucket, ok := buckets[rate]; ok {
		return bucket
	}
	bucket := &Bucket{Rate: rate}
	buckets[rate] = bucket
	return bucket
}

// frozenFactor returns the stored conversion factor to the base currency, or
// 1 for base-currency records and records missing a usable frozen rate.
func frozenFactor(currency string, exchangeRate float64, baseCurrency string) float64 {
	if currency == "" || currency == baseCurrency {
		return 1
	}
	if exchangeRate <= 0 {
		return 1
	}
	return exchangeRate
}
