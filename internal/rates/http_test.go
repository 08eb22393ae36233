package rates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConvertEndpoint(t *testing.T) {
	source := &stubSource{rates: map[string]float64{"EUR": 25.0}}
	handler, err := NewHandler(newTestResolver(t, source))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/convert?from=EUR&to=CZK&amount=100", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Rate      float64 `json:"rate"`
		Converted float64 `json:"converted"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Rate != 25.0 || result.Converted != 2500.0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestConvertEndpointMissingParams(t *testing.T) {
	handler, err := NewHandler(newTestResolver(t, &stubSource{}))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/convert?from=EUR", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
