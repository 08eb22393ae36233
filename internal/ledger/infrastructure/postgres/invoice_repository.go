package postgres

import (
	"context"
	"database/sql"
	"errors"

	ledger "ledger-cloud/internal/ledger/domain"
)

// InvoiceRepository reads period-bounded invoices.
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository constructs a repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// QueryInvoices returns all invoices issued inside the period, lines included,
// ordered by issue date.
func (r *InvoiceRepository) QueryInvoices(ctx context.Context, period ledger.Period) ([]ledger.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, number, client_name, client_address, client_country, client_vat_number,
	issue_date, due_date, subtotal, vat_amount, total, currency, exchange_rate,
	status, document_path, notes, created_at
FROM invoices
WHERE issue_date >= $1 AND issue_date < $2
ORDER BY issue_date ASC, number ASC`, period.Start, period.NextDayAfterEnd())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.Invoice
	for rows.Next() {
		var inv ledger.Invoice
		var documentPath sql.NullString
		var notes sql.NullString
		if err := rows.Scan(
			&inv.ID,
			&inv.Number,
			&inv.ClientName,
			&inv.ClientAddress,
			&inv.ClientCountry,
			&inv.ClientVATNumber,
			&inv.IssueDate,
			&inv.DueDate,
			&inv.Subtotal,
			&inv.VATAmount,
			&inv.Total,
			&inv.Currency,
			&inv.ExchangeRate,
			&inv.Status,
			&documentPath,
			&notes,
			&inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		if documentPath.Valid {
			inv.DocumentPath = documentPath.String
		}
		if notes.Valid {
			inv.Notes = notes.String
		}
		inv.IssueDate = inv.IssueDate.UTC()
		inv.DueDate = inv.DueDate.UTC()
		inv.CreatedAt = inv.CreatedAt.UTC()
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		lines, err := r.listLines(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Lines = lines
	}
	return result, nil
}

func (r *InvoiceRepository) listLines(ctx context.Context, invoiceID string) ([]ledger.InvoiceLine, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT description, quantity, unit_price, vat_rate
FROM invoice_lines
WHERE invoice_id = $1
ORDER BY position ASC`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []ledger.InvoiceLine
	for rows.Next() {
		var line ledger.InvoiceLine
		if err := rows.Scan(&line.Description, &line.Quantity, &line.UnitPrice, &line.VATRate); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
