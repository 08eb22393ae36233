package ledger

import "errors"

var (
	// ErrInvalidPeriod is returned when a period's start is after its end.
	ErrInvalidPeriod = errors.New("ledger: period start after end")
)
