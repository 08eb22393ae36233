package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger-cloud/internal/compliance"
)

func postValidate(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler, err := NewValidationHandler(compliance.NewValidator())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/validate", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestValidateEndpointValidInvoice(t *testing.T) {
	body := `{
		"number": "2024-0001",
		"client_name": "Novák s.r.o.",
		"client_address": "Dlouhá 1, Praha",
		"issue_date": "2024-06-01",
		"due_date": "2024-06-15",
		"lines": [{"description": "konzultace", "quantity": 10, "unit_price": 1000, "vat_rate": 21}],
		"subtotal": 10000,
		"vat_amount": 2100,
		"total": 12100,
		"notes": "Fakturujeme za služby"
	}`
	resp := postValidate(t, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result struct {
		Valid bool   `json:"valid"`
		Level string `json:"level"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Valid || result.Level != compliance.LevelFullyCompliant {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestValidateEndpointBadNumber(t *testing.T) {
	body := `{"number": "24-1"}`
	resp := postValidate(t, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, issue := range result.Errors {
		if issue.Code == compliance.CodeInvalidNumberFormat {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s, got %+v", compliance.CodeInvalidNumberFormat, result.Errors)
	}
}

func TestValidateEndpointBadJSON(t *testing.T) {
	if resp := postValidate(t, "{"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestValidateEndpointBadDate(t *testing.T) {
	if resp := postValidate(t, `{"issue_date": "01.06.2024"}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
