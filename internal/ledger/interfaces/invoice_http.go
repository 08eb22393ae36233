package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ledger-cloud/internal/compliance"
	ledger "ledger-cloud/internal/ledger/domain"
)

// ValidationHandler exposes invoice compliance checks under
// /api/v1/invoices/validate.
type ValidationHandler struct {
	validator *compliance.Validator
}

// NewValidationHandler constructs a handler.
func NewValidationHandler(validator *compliance.Validator) (*ValidationHandler, error) {
	if validator == nil {
		return nil, errors.New("validation handler: nil validator")
	}
	return &ValidationHandler{validator: validator}, nil
}

type invoiceLineRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	VATRate     float64 `json:"vat_rate"`
}

type invoiceRequest struct {
	Number          string               `json:"number"`
	ClientName      string               `json:"client_name"`
	ClientAddress   string               `json:"client_address"`
	ClientCountry   string               `json:"client_country"`
	ClientVATNumber string               `json:"client_vat_number"`
	IssueDate       string               `json:"issue_date"`
	DueDate         string               `json:"due_date"`
	Lines           []invoiceLineRequest `json:"lines"`
	Subtotal        float64              `json:"subtotal"`
	VATAmount       float64              `json:"vat_amount"`
	Total           float64              `json:"total"`
	Notes           string               `json:"notes"`
}

type issueResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeHTTP validates a submitted invoice and reports findings.
func (h *ValidationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/invoices/validate" || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	inv, err := req.toInvoice()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.validator.Validate(inv)
	resp := struct {
		Valid    bool            `json:"valid"`
		Level    string          `json:"level"`
		Errors   []issueResponse `json:"errors"`
		Warnings []issueResponse `json:"warnings"`
	}{
		Valid:    result.Valid,
		Level:    result.Level,
		Errors:   toIssueResponses(result.Errors),
		Warnings: toIssueResponses(result.Warnings),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (req invoiceRequest) toInvoice() (ledger.Invoice, error) {
	inv := ledger.Invoice{
		Number:          req.Number,
		ClientName:      req.ClientName,
		ClientAddress:   req.ClientAddress,
		ClientCountry:   req.ClientCountry,
		ClientVATNumber: req.ClientVATNumber,
		Subtotal:        req.Subtotal,
		VATAmount:       req.VATAmount,
		Total:           req.Total,
		Notes:           req.Notes,
	}
	if req.IssueDate != "" {
		date, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			return ledger.Invoice{}, errors.New("invalid issue_date, want YYYY-MM-DD")
		}
		inv.IssueDate = date
	}
	if req.DueDate != "" {
		date, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return ledger.Invoice{}, errors.New("invalid due_date, want YYYY-MM-DD")
		}
		inv.DueDate = date
	}
	for _, line := range req.Lines {
		inv.Lines = append(inv.Lines, ledger.InvoiceLine{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATRate:     line.VATRate,
		})
	}
	return inv, nil
}

func toIssueResponses(issues []compliance.Issue) []issueResponse {
	result := make([]issueResponse, 0, len(issues))
	for _, issue := range issues {
		result = append(result, issueResponse{Code: issue.Code, Message: issue.Message})
	}
	return result
}
