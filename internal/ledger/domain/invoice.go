package ledger

import "time"

const (
	InvoiceStatusDraft    = "draft"
	InvoiceStatusSent     = "sent"
	InvoiceStatusPaid     = "paid"
	InvoiceStatusOverdue  = "overdue"
	InvoiceStatusCanceled = "canceled"
)

var invoiceStatusLabels = map[string]string{
	InvoiceStatusDraft:    "Koncept",
	InvoiceStatusSent:     "Odesláno",
	InvoiceStatusPaid:     "Zaplaceno",
	InvoiceStatusOverdue:  "Po splatnosti",
	InvoiceStatusCanceled: "Stornováno",
}

// InvoiceLine is a single billed item.
type InvoiceLine struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	VATRate     float64
}

// Base returns the line's VAT base amount.
func (l InvoiceLine) Base() float64 {
	return l.Quantity * l.UnitPrice
}

// VAT returns the line's VAT amount.
func (l InvoiceLine) VAT() float64 {
	return l.Base() * l.VATRate / 100
}

// Invoice is an issued invoice. Subtotal, VATAmount and Total are the stored
// values captured at issuance; ExchangeRate is the frozen rate to the base
// currency captured at the same moment.
type Invoice struct {
	ID              string
	Number          string
	ClientName      string
	ClientAddress   string
	ClientCountry   string
	ClientVATNumber string
	IssueDate       time.Time
	DueDate         time.Time
	Lines           []InvoiceLine
	Subtotal        float64
	VATAmount       float64
	Total           float64
	Currency        string
	ExchangeRate    float64
	Status          string
	DocumentPath    string
	Notes           string
	CreatedAt       time.Time
}

// ComputedSubtotal recomputes the subtotal from line items.
func (i Invoice) ComputedSubtotal() float64 {
	var sum float64
	for _, line := range i.Lines {
		sum += line.Base()
	}
	return sum
}

// ComputedVAT recomputes the VAT amount from line items.
func (i Invoice) ComputedVAT() float64 {
	var sum float64
	for _, line := range i.Lines {
		sum += line.VAT()
	}
	return sum
}

// ComputedTotal recomputes the total from line items.
func (i Invoice) ComputedTotal() float64 {
	return i.ComputedSubtotal() + i.ComputedVAT()
}

// StatusLabel returns the Czech display label for the invoice status.
func (i Invoice) StatusLabel() string {
	if label, ok := invoiceStatusLabels[i.Status]; ok {
		return label
	}
	return "Neznámý"
}
