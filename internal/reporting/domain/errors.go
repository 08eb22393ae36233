package reporting

import "errors"

var (
	// ErrReportExists is returned when a report for the period already exists.
	ErrReportExists = errors.New("reporting: report for period already exists")
	// ErrReportNotFound is returned when a report is not found.
	ErrReportNotFound = errors.New("reporting: report not found")
	// ErrInvalidTransition is returned on a forbidden status change.
	ErrInvalidTransition = errors.New("reporting: invalid status transition")
	// ErrNilReport is returned when operating on a nil report.
	ErrNilReport = errors.New("reporting: nil report")
)
