package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ledger "ledger-cloud/internal/ledger/domain"
	reporting "ledger-cloud/internal/reporting/domain"
)

// ReportRepository persists monthly report records.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository constructs a repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// FindByPeriod returns the report owning the exact (start, end) pair, or
// reporting.ErrReportNotFound.
func (r *ReportRepository) FindByPeriod(ctx context.Context, period ledger.Period) (*reporting.Report, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("report repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, period_start, period_end, status, generated_at, sent_at, updated_at
FROM monthly_reports
WHERE period_start = $1 AND period_end = $2`, period.Start, period.End)
	return scanReport(row)
}

// Create inserts a new report record. A conflicting period maps to
// reporting.ErrReportExists.
func (r *ReportRepository) Create(ctx context.Context, rep *reporting.Report) error {
	if r == nil || r.db == nil {
		return errors.New("report repo: nil db")
	}
	if rep == nil {
		return reporting.ErrNilReport
	}
	var sentAt sql.NullTime
	if !rep.SentAt.IsZero() {
		sentAt = sql.NullTime{Time: rep.SentAt, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, `
INSERT INTO monthly_reports (id, period_start, period_end, status, generated_at, sent_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (period_start, period_end) DO NOTHING`,
		rep.ID, rep.Period.Start, rep.Period.End, rep.Status, rep.GeneratedAt, sentAt, rep.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return reporting.ErrReportExists
	}
	return nil
}

// Update writes back the report's mutable state.
func (r *ReportRepository) Update(ctx context.Context, rep *reporting.Report) error {
	if r == nil || r.db == nil {
		return errors.New("report repo: nil db")
	}
	if rep == nil {
		return reporting.ErrNilReport
	}
	var sentAt sql.NullTime
	if !rep.SentAt.IsZero() {
		sentAt = sql.NullTime{Time: rep.SentAt, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE monthly_reports
SET status = $2, generated_at = $3, sent_at = $4, updated_at = $5
WHERE id = $1`,
		rep.ID, rep.Status, rep.GeneratedAt, sentAt, rep.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return reporting.ErrReportNotFound
	}
	return nil
}

// List returns all report records, newest period first.
func (r *ReportRepository) List(ctx context.Context) ([]reporting.Report, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("report repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, period_start, period_end, status, generated_at, sent_at, updated_at
FROM monthly_reports
ORDER BY period_start DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reporting.Report
	for rows.Next() {
		rep, err := scanReportRows(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row *sql.Row) (*reporting.Report, error) {
	rep, err := scanReportRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reporting.ErrReportNotFound
	}
	return rep, err
}

func scanReportRows(scanner rowScanner) (*reporting.Report, error) {
	var rep reporting.Report
	var start, end time.Time
	var sentAt sql.NullTime
	if err := scanner.Scan(
		&rep.ID,
		&start,
		&end,
		&rep.Status,
		&rep.GeneratedAt,
		&sentAt,
		&rep.UpdatedAt,
	); err != nil {
		return nil, err
	}
	period, err := ledger.NewPeriod(start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	rep.Period = period
	if sentAt.Valid {
		rep.SentAt = sentAt.Time.UTC()
	}
	rep.GeneratedAt = rep.GeneratedAt.UTC()
	rep.UpdatedAt = rep.UpdatedAt.UTC()
	return &rep, nil
}
