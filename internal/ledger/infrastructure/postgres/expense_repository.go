package postgres

import (
	"context"
	"database/sql"
	"errors"

	ledger "ledger-cloud/internal/ledger/domain"
)

// ExpenseRepository reads period-bounded expenses.
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository constructs a repository.
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// QueryExpenses returns all expenses dated inside the period, ordered by date.
func (r *ExpenseRepository) QueryExpenses(ctx context.Context, period ledger.Period) ([]ledger.Expense, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("expense repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, expense_date, amount, vat_amount, category, description,
	currency, exchange_rate, receipt_path, created_at
FROM expenses
WHERE expense_date >= $1 AND expense_date < $2
ORDER BY expense_date ASC, id ASC`, period.Start, period.NextDayAfterEnd())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ledger.Expense
	for rows.Next() {
		var exp ledger.Expense
		var receiptPath sql.NullString
		if err := rows.Scan(
			&exp.ID,
			&exp.Date,
			&exp.Amount,
			&exp.VATAmount,
			&exp.Category,
			&exp.Description,
			&exp.Currency,
			&exp.ExchangeRate,
			&receiptPath,
			&exp.CreatedAt,
		); err != nil {
			return nil, err
		}
		if receiptPath.Valid {
			exp.ReceiptPath = receiptPath.String
		}
		exp.Date = exp.Date.UTC()
		exp.CreatedAt = exp.CreatedAt.UTC()
		result = append(result, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
