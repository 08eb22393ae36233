package compliance

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	ledger "ledger-cloud/internal/ledger/domain"
	"ledger-cloud/internal/observability/metrics"
)

// Compliance levels.
const (
	LevelFullyCompliant        = "fully_compliant"
	LevelCompliantWithWarnings = "compliant_with_warnings"
	LevelNonCompliant          = "non_compliant"
)

const (
	// minNumberYear bounds the invoice number year from below.
	minNumberYear = 2020
	// statutoryDueTermDays is the usual payment term; deviation is a warning.
	statutoryDueTermDays = 14
	// amountTolerance is the rounding tolerance for recomputed amounts.
	amountTolerance = 0.01
	// largeTotalThreshold flags unusually large invoices for review.
	largeTotalThreshold = 1000000.0
)

var invoiceNumberPattern = regexp.MustCompile(`^(\d{4})-(\d+)$`)

// Issue is a single validation finding with a localized message.
type Issue struct {
	Code    string
	Message string
}

// Result is the outcome of a full invoice validation.
type Result struct {
	Valid    bool
	Errors   []Issue
	Warnings []Issue
	Level    string
}

// Validator checks invoices against the legal formatting rules.
type Validator struct {
	now func() time.Time
}

// NewValidator constructs a Validator using the system clock.
func NewValidator() *Validator {
	return &Validator{now: func() time.Time { return time.Now().UTC() }}
}

// Validate runs every rule against an invoice. Hard errors make the invoice
// non-compliant; format findings are soft warnings only.
func (v *Validator) Validate(inv ledger.Invoice) Result {
	var errs, warnings []Issue

	errs = append(errs, v.numberIssues(inv.Number)...)
	errs = append(errs, mandatoryFieldIssues(inv)...)

	if len(inv.Lines) > 0 {
		errs = append(errs, amountIssues(inv)...)
	}

	if !inv.IssueDate.IsZero() && !inv.DueDate.IsZero() {
		if !inv.DueDate.After(inv.IssueDate) {
			errs = append(errs, Issue{Code: CodeDueBeforeIssue, Message: msgDueBeforeIssue})
		} else {
			days := int(inv.DueDate.Sub(inv.IssueDate).Hours() / 24)
			if days != statutoryDueTermDays {
				warnings = append(warnings, Issue{
					Code:    CodeNonstandardDueTerm,
					Message: fmt.Sprintf(msgNonstandardDueTerm, days, statutoryDueTermDays),
				})
			}
		}
	}

	if inv.Notes == "" {
		warnings = append(warnings, Issue{Code: CodeMissingNotes, Message: msgMissingNotes})
	}
	if inv.Total > largeTotalThreshold {
		warnings = append(warnings, Issue{
			Code:    CodeUnusuallyLargeTotal,
			Message: fmt.Sprintf(msgUnusuallyLargeTotal, inv.Total),
		})
	}
	if !inv.IssueDate.IsZero() && inv.IssueDate.After(v.now()) {
		warnings = append(warnings, Issue{Code: CodeIssueDateInFuture, Message: msgIssueDateInFuture})
	}

	result := Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		Level:    level(errs, warnings),
	}
	metrics.IncComplianceResult(result.Level)
	return result
}

// ValidateForSave runs the reduced pre-save subset against raw input data.
// Any returned issue is a hard error and must block persistence entirely.
func (v *Validator) ValidateForSave(inv ledger.Invoice) []Issue {
	var errs []Issue
	errs = append(errs, v.numberIssues(inv.Number)...)
	errs = append(errs, mandatoryFieldIssues(inv)...)
	if !inv.IssueDate.IsZero() && !inv.DueDate.IsZero() && !inv.DueDate.After(inv.IssueDate) {
		errs = append(errs, Issue{Code: CodeDueBeforeIssue, Message: msgDueBeforeIssue})
	}
	return errs
}

func (v *Validator) numberIssues(number string) []Issue {
	if number == "" {
		return []Issue{{Code: CodeMissingNumber, Message: msgMissingNumber}}
	}
	match := invoiceNumberPattern.FindStringSubmatch(number)
	if match == nil {
		return []Issue{{
			Code:    CodeInvalidNumberFormat,
			Message: fmt.Sprintf(msgInvalidNumberFormat, number),
		}}
	}
	var issues []Issue
	year, _ := strconv.Atoi(match[1])
	maxYear := v.now().Year() + 1
	if year < minNumberYear || year > maxYear {
		issues = append(issues, Issue{
			Code:    CodeNumberYearOutOfRange,
			Message: fmt.Sprintf(msgNumberYearOutOfRange, year, minNumberYear, maxYear),
		})
	}
	sequence, err := strconv.Atoi(match[2])
	if err != nil || sequence < 1 {
		issues = append(issues, Issue{Code: CodeNumberSequenceTooLow, Message: msgNumberSequenceTooLow})
	}
	return issues
}

func mandatoryFieldIssues(inv ledger.Invoice) []Issue {
	var issues []Issue
	if inv.IssueDate.IsZero() {
		issues = append(issues, Issue{Code: CodeMissingIssueDate, Message: msgMissingIssueDate})
	}
	if inv.DueDate.IsZero() {
		issues = append(issues, Issue{Code: CodeMissingDueDate, Message: msgMissingDueDate})
	}
	if inv.ClientName == "" {
		issues = append(issues, Issue{Code: CodeMissingClientName, Message: msgMissingClientName})
	}
	if inv.ClientAddress == "" {
		issues = append(issues, Issue{Code: CodeMissingClientAddress, Message: msgMissingClientAddress})
	}
	if len(inv.Lines) == 0 {
		issues = append(issues, Issue{Code: CodeMissingLines, Message: msgMissingLines})
		return issues
	}
	for i, line := range inv.Lines {
		if line.Quantity <= 0 {
			issues = append(issues, Issue{
				Code:    CodeInvalidLineQuantity,
				Message: fmt.Sprintf(msgInvalidLineQuantity, i+1),
			})
		}
		if line.UnitPrice < 0 {
			issues = append(issues, Issue{
				Code:    CodeInvalidLineUnitPrice,
				Message: fmt.Sprintf(msgInvalidLineUnitPrice, i+1),
			})
		}
	}
	return issues
}

// amountIssues recomputes subtotal/VAT/total from line items and compares
// them to the stored values within the rounding tolerance.
func amountIssues(inv ledger.Invoice) []Issue {
	var issues []Issue
	if expected := inv.ComputedSubtotal(); math.Abs(expected-inv.Subtotal) > amountTolerance {
		issues = append(issues, Issue{
			Code:    CodeSubtotalMismatch,
			Message: fmt.Sprintf(msgSubtotalMismatch, expected, inv.Subtotal),
		})
	}
	if expected := inv.ComputedVAT(); math.Abs(expected-inv.VATAmount) > amountTolerance {
		issues = append(issues, Issue{
			Code:    CodeVATMismatch,
			Message: fmt.Sprintf(msgVATMismatch, expected, inv.VATAmount),
		})
	}
	if expected := inv.ComputedTotal(); math.Abs(expected-inv.Total) > amountTolerance {
		issues = append(issues, Issue{
			Code:    CodeTotalMismatch,
			Message: fmt.Sprintf(msgTotalMismatch, expected, inv.Total),
		})
	}
	return issues
}

func level(errs, warnings []Issue) string {
	if len(errs) > 0 {
		return LevelNonCompliant
	}
	if len(warnings) > 0 {
		return LevelCompliantWithWarnings
	}
	return LevelFullyCompliant
}
