package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ledger-cloud/internal/delivery"
	ledger "ledger-cloud/internal/ledger/domain"
	"ledger-cloud/internal/reporting/application"
	reporting "ledger-cloud/internal/reporting/domain"
	"ledger-cloud/internal/vat"
)

// ReportHandler handles report APIs under /api/v1/reports.
type ReportHandler struct {
	service *application.Service
	runner  *application.Runner
}

// NewReportHandler constructs a handler.
func NewReportHandler(service *application.Service, runner *application.Runner) (*ReportHandler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	if runner == nil {
		return nil, errors.New("report handler: nil runner")
	}
	return &ReportHandler{service: service, runner: runner}, nil
}

// ServeHTTP routes report requests.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/reports/generate" && r.Method == http.MethodPost:
		h.handleGenerate(w, r)
	case r.URL.Path == "/api/v1/reports" && r.Method == http.MethodGet:
		h.handleList(w, r)
	case r.URL.Path == "/api/v1/reports/summary" && r.Method == http.MethodGet:
		h.handleSummary(w, r)
	case r.URL.Path == "/api/v1/reports/quarterly" && r.Method == http.MethodGet:
		h.handleQuarterly(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ReportHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
		Regenerate  bool   `json:"regenerate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := h.service.Generate(r.Context(), period, req.Regenerate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.runner.Launch(rep)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"report_id": rep.ID,
		"status":    rep.Status,
		"period":    rep.Period.Label(),
	})
}

func (h *ReportHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	type item struct {
		ID          string    `json:"report_id"`
		PeriodStart string    `json:"period_start"`
		PeriodEnd   string    `json:"period_end"`
		Status      string    `json:"status"`
		GeneratedAt time.Time `json:"generated_at"`
		SentAt      string    `json:"sent_at,omitempty"`
	}
	items := make([]item, 0, len(list))
	for _, rep := range list {
		entry := item{
			ID:          rep.ID,
			PeriodStart: rep.Period.Start.Format("2006-01-02"),
			PeriodEnd:   rep.Period.End.Format("2006-01-02"),
			Status:      rep.Status,
			GeneratedAt: rep.GeneratedAt,
		}
		if !rep.SentAt.IsZero() {
			entry.SentAt = rep.SentAt.Format(time.RFC3339)
		}
		items = append(items, entry)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

func (h *ReportHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary, euSales, err := h.service.Summarize(r.Context(), period)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "pdf":
		data, err := BuildSummaryPDF(period, summary)
		if err != nil {
			http.Error(w, "export pdf error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(data)
	case "xlsx":
		data, err := BuildSummaryXLSX(period, summary)
		if err != nil {
			http.Error(w, "export xlsx error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(data)
	default:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summaryResponse(period, summary, euSales))
	}
}

type bucketItem struct {
	Rate             float64 `json:"rate"`
	BaseAmount       float64 `json:"base_amount"`
	VATAmount        float64 `json:"vat_amount"`
	TotalAmount      float64 `json:"total_amount"`
	TransactionCount int     `json:"transaction_count"`
}

// summaryResponse flattens the rate-keyed bucket maps into sorted slices so
// the summary can be JSON-encoded.
func summaryResponse(period ledger.Period, summary *vat.Summary, euSales vat.EUSales) map[string]any {
	toItems := func(buckets map[float64]*vat.Bucket) []bucketItem {
		items := make([]bucketItem, 0, len(buckets))
		for _, rate := range sortedRates(buckets) {
			bucket := buckets[rate]
			items = append(items, bucketItem{
				Rate:             bucket.Rate,
				BaseAmount:       bucket.BaseAmount,
				VATAmount:        bucket.VATAmount,
				TotalAmount:      bucket.TotalAmount,
				TransactionCount: bucket.TransactionCount,
			})
		}
		return items
	}
	netVAT := make(map[string]float64, len(summary.NetVAT))
	for rate, amount := range summary.NetVAT {
		netVAT[strconv.FormatFloat(rate, 'g', -1, 64)] = amount
	}
	warnings := make([]map[string]string, 0)
	for _, warning := range vat.Check(summary) {
		warnings = append(warnings, map[string]string{"code": warning.Code, "message": warning.Message})
	}
	return map[string]any{
		"period":           period.Label(),
		"output_buckets":   toItems(summary.OutputBuckets),
		"input_buckets":    toItems(summary.InputBuckets),
		"net_vat":          netVAT,
		"output_vat_total": summary.OutputVATTotal,
		"input_vat_total":  summary.InputVATTotal,
		"net_vat_total":    summary.NetVATTotal,
		"status":           summary.Status,
		"warnings":         warnings,
		"eu_sales": map[string]any{
			"total":              euSales.Total,
			"invoice_count":      euSales.InvoiceCount,
			"reporting_required": euSales.ReportingRequired,
		},
	}
}

func (h *ReportHandler) handleQuarterly(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	quarter, err := strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil || quarter < 1 || quarter > 4 {
		http.Error(w, "invalid quarter", http.StatusBadRequest)
		return
	}
	period, err := quarterPeriod(year, quarter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary, _, err := h.service.Summarize(r.Context(), period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	ret, err := vat.BuildQuarterlyReturn(summary, year, quarter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		data, err := BuildQuarterlyPDF(ret)
		if err != nil {
			http.Error(w, "export pdf error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(data)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ret)
}

func parsePeriod(start, end string) (ledger.Period, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return ledger.Period{}, errors.New("invalid period start, want YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return ledger.Period{}, errors.New("invalid period end, want YYYY-MM-DD")
	}
	return ledger.NewPeriod(startDate, endDate)
}

func quarterPeriod(year, quarter int) (ledger.Period, error) {
	startMonth := time.Month((quarter-1)*3 + 1)
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0).AddDate(0, 0, -1)
	return ledger.NewPeriod(start, end)
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, reporting.ErrReportExists):
		http.Error(w, "report already exists for period", http.StatusConflict)
	case errors.Is(err, reporting.ErrReportNotFound):
		http.Error(w, "report not found", http.StatusNotFound)
	case errors.Is(err, delivery.ErrMissingRecipient):
		http.Error(w, "report recipient not configured", http.StatusPreconditionFailed)
	case errors.Is(err, ledger.ErrInvalidPeriod):
		http.Error(w, "invalid period", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
