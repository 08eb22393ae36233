package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ledger_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	rateFetchTotal *prometheus.CounterVec
	rateCacheHits  *prometheus.CounterVec

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec

	archiveBuildTotal   *prometheus.CounterVec
	archiveBuildLatency *prometheus.HistogramVec

	deliveryTotal *prometheus.CounterVec

	complianceResults *prometheus.CounterVec
)

// Init registers pipeline metrics. Called once from main; all Observe helpers
// are no-ops before registration so tests need no setup.
func Init() {
	registerOnce.Do(func() {
		rateFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rate_fetch_total",
				Help: "Total upstream rate lookups by result",
			},
			[]string{"result"},
		)
		rateCacheHits = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rate_cache_hits_total",
				Help: "Total rate cache hits by key kind",
			},
			[]string{"kind"},
		)

		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generation runs by result",
			},
			[]string{"result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		archiveBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "archive_build_total",
				Help: "Total report archive builds by result",
			},
			[]string{"result"},
		)
		archiveBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "archive_build_latency_seconds",
				Help:    "Report archive build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		deliveryTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "delivery_total",
				Help: "Total report deliveries by transport and result",
			},
			[]string{"transport", "result"},
		)

		complianceResults = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "compliance_results_total",
				Help: "Total invoice validations by compliance level",
			},
			[]string{"level"},
		)

		prometheus.MustRegister(
			rateFetchTotal,
			rateCacheHits,
			reportGenerateTotal,
			reportGenerateLatency,
			archiveBuildTotal,
			archiveBuildLatency,
			deliveryTotal,
			complianceResults,
		)
	})
}

// IncRateFetch increments the upstream rate lookup counter.
func IncRateFetch(result string) {
	if result == "" {
		result = resultSuccess
	}
	if rateFetchTotal != nil {
		rateFetchTotal.WithLabelValues(result).Inc()
	}
}

// IncRateCacheHit increments the rate cache hit counter.
func IncRateCacheHit(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if rateCacheHits != nil {
		rateCacheHits.WithLabelValues(kind).Inc()
	}
}

// ObserveReportGenerate records generation latency and result.
func ObserveReportGenerate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if reportGenerateTotal != nil {
		reportGenerateTotal.WithLabelValues(result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveArchiveBuild records archive build latency and result.
func ObserveArchiveBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if archiveBuildTotal != nil {
		archiveBuildTotal.WithLabelValues(result).Inc()
	}
	if archiveBuildLatency != nil {
		archiveBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncDelivery increments the delivery counter.
func IncDelivery(transport, result string) {
	if transport == "" {
		transport = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if deliveryTotal != nil {
		deliveryTotal.WithLabelValues(transport, result).Inc()
	}
}

// IncComplianceResult increments the validation counter by level.
func IncComplianceResult(level string) {
	if level == "" {
		level = "unknown"
	}
	if complianceResults != nil {
		complianceResults.WithLabelValues(level).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
