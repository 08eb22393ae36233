package compliance

// Issue codes. Messages are user-facing and localized (Czech).
const (
	CodeInvalidNumberFormat   = "invalid_number_format"
	CodeNumberYearOutOfRange  = "number_year_out_of_range"
	CodeNumberSequenceTooLow  = "number_sequence_too_low"
	CodeMissingNumber         = "missing_number"
	CodeMissingIssueDate      = "missing_issue_date"
	CodeMissingDueDate        = "missing_due_date"
	CodeMissingClientName     = "missing_client_name"
	CodeMissingClientAddress  = "missing_client_address"
	CodeMissingLines          = "missing_lines"
	CodeInvalidLineQuantity   = "invalid_line_quantity"
	CodeInvalidLineUnitPrice  = "invalid_line_unit_price"
	CodeSubtotalMismatch      = "subtotal_mismatch"
	CodeVATMismatch           = "vat_mismatch"
	CodeTotalMismatch         = "total_mismatch"
	CodeDueBeforeIssue        = "due_before_issue"
	CodeNonstandardDueTerm    = "nonstandard_due_term"
	CodeMissingNotes          = "missing_notes"
	CodeUnusuallyLargeTotal   = "unusually_large_total"
	CodeIssueDateInFuture     = "issue_date_in_future"
)

const (
	msgInvalidNumberFormat  = "Číslo faktury %q neodpovídá formátu ROK-ČÍSLO (např. 2024-0001)"
	msgNumberYearOutOfRange = "Rok %d v čísle faktury je mimo povolený rozsah %d–%d"
	msgNumberSequenceTooLow = "Pořadové číslo faktury musí být alespoň 1"

	msgMissingNumber        = "Chybí číslo faktury"
	msgMissingIssueDate     = "Chybí datum vystavení"
	msgMissingDueDate       = "Chybí datum splatnosti"
	msgMissingClientName    = "Chybí jméno klienta"
	msgMissingClientAddress = "Chybí adresa klienta"
	msgMissingLines         = "Faktura musí obsahovat alespoň jednu položku"
	msgInvalidLineQuantity  = "Položka %d má neplatné množství"
	msgInvalidLineUnitPrice = "Položka %d má zápornou jednotkovou cenu"

	msgSubtotalMismatch = "Nesouhlasí základ daně: vypočteno %.2f, uvedeno %.2f"
	msgVATMismatch      = "Nesouhlasí DPH: vypočteno %.2f, uvedeno %.2f"
	msgTotalMismatch    = "Nesouhlasí celková částka: vypočteno %.2f, uvedeno %.2f"

	msgDueBeforeIssue     = "Datum splatnosti musí následovat po datu vystavení"
	msgNonstandardDueTerm = "Splatnost %d dní se liší od obvyklých %d dní"

	msgMissingNotes        = "Faktura nemá poznámku"
	msgUnusuallyLargeTotal = "Neobvykle vysoká celková částka %.2f"
	msgIssueDateInFuture   = "Datum vystavení je v budoucnosti"
)
