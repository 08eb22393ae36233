package rates

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// Handler exposes currency conversion under /api/v1/rates/convert.
type Handler struct {
	resolver *Resolver
}

// NewHandler constructs a handler.
func NewHandler(resolver *Resolver) (*Handler, error) {
	if resolver == nil {
		return nil, errors.New("rates handler: nil resolver")
	}
	return &Handler{resolver: resolver}, nil
}

// ServeHTTP converts an amount between two currencies at the effective rate.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/rates/convert" || r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "from and to are required", http.StatusBadRequest)
		return
	}
	amount := 1.0
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}
		amount = parsed
	}

	rate := h.resolver.GetRate(r.Context(), from, to)
	resp := map[string]any{
		"from":           from,
		"to":             to,
		"rate":           rate,
		"amount":         amount,
		"converted":      h.resolver.Convert(r.Context(), amount, from, to),
		"effective_date": h.resolver.EffectiveDate().Format("2006-01-02"),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
