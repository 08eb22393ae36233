package ledger

import "time"

// Period is the accounting window a single report covers, inclusive of both
// boundary days. Invariant: Start <= End.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod builds a Period from boundary days, normalized to UTC midnight.
func NewPeriod(start, end time.Time) (Period, error) {
	start = dayStart(start)
	end = dayStart(end)
	if start.After(end) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	day := dayStart(t)
	return !day.Before(p.Start) && !day.After(p.End)
}

// NextDayAfterEnd returns the exclusive upper bound for range queries.
func (p Period) NextDayAfterEnd() time.Time {
	return p.End.AddDate(0, 0, 1)
}

// Key identifies the period for uniqueness checks.
func (p Period) Key() string {
	return p.Start.Format("2006-01-02") + "|" + p.End.Format("2006-01-02")
}

// Label is the human-readable form used in subjects and manifests.
func (p Period) Label() string {
	return p.Start.Format("2006-01-02") + " – " + p.End.Format("2006-01-02")
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
