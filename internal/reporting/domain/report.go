package reporting

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	ledger "ledger-cloud/internal/ledger/domain"
)

// Report statuses. A report is created pending, reaches exactly one terminal
// state per run, and only explicit regeneration returns it to pending.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Report is the monthly report record owning one reporting period. At most
// one record exists per distinct (start, end) pair.
type Report struct {
	ID          string
	Period      ledger.Period
	Status      string
	GeneratedAt time.Time
	SentAt      time.Time
	UpdatedAt   time.Time
}

// NewReport creates a pending report for a period.
func NewReport(period ledger.Period, now time.Time) *Report {
	return &Report{
		ID:          BuildReportID(period),
		Period:      period,
		Status:      StatusPending,
		GeneratedAt: now,
		UpdatedAt:   now,
	}
}

// BuildReportID derives the record identity from the period pair.
func BuildReportID(period ledger.Period) string {
	hash := sha256.Sum256([]byte(period.Key()))
	return "rep-" + hex.EncodeToString(hash[:8])
}

// MarkSent transitions pending -> sent.
func (r *Report) MarkSent(now time.Time) error {
	if r == nil {
		return ErrNilReport
	}
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusSent
	r.SentAt = now
	r.UpdatedAt = now
	return nil
}

// MarkFailed transitions pending -> failed.
func (r *Report) MarkFailed(now time.Time) error {
	if r == nil {
		return ErrNilReport
	}
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusFailed
	r.UpdatedAt = now
	return nil
}

// ResetPending returns a report to pending from any state. Only explicit
// regeneration calls this.
func (r *Report) ResetPending(now time.Time) error {
	if r == nil {
		return ErrNilReport
	}
	r.Status = StatusPending
	r.SentAt = time.Time{}
	r.GeneratedAt = now
	r.UpdatedAt = now
	return nil
}
