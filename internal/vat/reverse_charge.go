package vat

import (
	ledger "ledger-cloud/internal/ledger/domain"
)

// EUSalesReportingThreshold is the running total of qualifying EU sales in
// the base currency above which a recapitulative statement must be filed.
const EUSalesReportingThreshold = 326000.0

// euCountries is the fixed set of EU member states other than the home state.
var euCountries = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true,
	"GR": true, "HU": true, "IE": true, "IT": true, "LV": true,
	"LT": true, "LU": true, "MT": true, "NL": true, "PL": true,
	"PT": true, "RO": true, "SK": true, "SI": true, "ES": true,
	"SE": true,
}

// QualifiesForReverseCharge reports whether the VAT remittance obligation
// shifts to the buyer: an EU client with a tax identifier and a positive
// invoice total.
func QualifiesForReverseCharge(inv ledger.Invoice) bool {
	if !euCountries[inv.ClientCountry] {
		return false
	}
	if inv.ClientVATNumber == "" {
		return false
	}
	return inv.Total > 0
}

// EUSales summarizes qualifying cross-border sales for a period.
type EUSales struct {
	Total             float64
	InvoiceCount      int
	ReportingRequired bool
}

// AggregateEUSales sums qualifying invoice totals in the base currency and
// flips ReportingRequired once the running total exceeds the threshold.
func AggregateEUSales(invoices []ledger.Invoice, baseCurrency string) EUSales {
	var sales EUSales
	for _, inv := range invoices {
		if !QualifiesForReverseCharge(inv) {
			continue
		}
		sales.Total += inv.Total * frozenFactor(inv.Currency, inv.ExchangeRate, baseCurrency)
		sales.InvoiceCount++
		if sales.Total > EUSalesReportingThreshold {
			sales.ReportingRequired = true
		}
	}
	return sales
}
