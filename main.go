package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"ledger-cloud/internal/auth"
	"ledger-cloud/internal/compliance"
	deliverypkg "ledger-cloud/internal/delivery"
	"ledger-cloud/internal/docs"
	ledgerrepo "ledger-cloud/internal/ledger/infrastructure/postgres"
	ledgerinterfaces "ledger-cloud/internal/ledger/interfaces"
	"ledger-cloud/internal/observability/metrics"
	"ledger-cloud/internal/rates"
	reportapp "ledger-cloud/internal/reporting/application"
	"ledger-cloud/internal/reporting/archive"
	reportrepo "ledger-cloud/internal/reporting/infrastructure/postgres"
	reportinterfaces "ledger-cloud/internal/reporting/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init()

	location, err := time.LoadLocation(cfg.RateTimezone)
	if err != nil {
		logger.Fatalf("rate timezone error: %v", err)
	}
	rateSource, err := rates.NewSourceClient(cfg.RateSourceURL)
	if err != nil {
		logger.Fatalf("rate source error: %v", err)
	}
	var rateStore rates.Store
	if cfg.RateCacheRedisURL != "" {
		redisStore, err := rates.NewRedisStore(cfg.RateCacheRedisURL, logger)
		if err != nil {
			logger.Fatalf("rate cache error: %v", err)
		}
		defer redisStore.Close()
		rateStore = redisStore
	} else {
		rateStore = rates.NewMemoryStore()
	}
	resolver, err := rates.NewResolver(rateSource, rateStore, cfg.BaseCurrency, location, logger)
	if err != nil {
		logger.Fatalf("rate resolver error: %v", err)
	}
	ratesHandler, err := rates.NewHandler(resolver)
	if err != nil {
		logger.Fatalf("rates handler error: %v", err)
	}

	documentStore, err := docs.NewFilesystemStore(cfg.DocumentDir)
	if err != nil {
		logger.Fatalf("document store error: %v", err)
	}
	renderer := docs.NewRenderer()

	invoiceRepo := ledgerrepo.NewInvoiceRepository(db)
	expenseRepo := ledgerrepo.NewExpenseRepository(db)
	reportRepo := reportrepo.NewReportRepository(db)

	deliveryCfg, err := deliverypkg.LoadConfig()
	if err != nil {
		logger.Fatalf("delivery config error: %v", err)
	}
	policy := deliverypkg.BuildPolicy(deliveryCfg, logger)
	manager, err := reportapp.NewDeliveryManager(policy, logger)
	if err != nil {
		logger.Fatalf("delivery manager error: %v", err)
	}

	builder, err := archive.NewBuilder(documentStore, renderer, cfg.ScratchDir, logger)
	if err != nil {
		logger.Fatalf("archive builder error: %v", err)
	}

	reportService, err := reportapp.NewService(reportRepo, invoiceRepo, expenseRepo, builder, manager, cfg.BaseCurrency, logger)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}
	runner := reportapp.NewRunner(reportService, logger)

	reportHandler, err := reportinterfaces.NewReportHandler(reportService, runner)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}
	validationHandler, err := ledgerinterfaces.NewValidationHandler(compliance.NewValidator())
	if err != nil {
		logger.Fatalf("validation handler error: %v", err)
	}

	authPolicy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"})
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), authPolicy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports", reportHandler)
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/api/v1/invoices/validate", validationHandler)
	mux.Handle("/api/v1/rates/convert", ratesHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL       string
	HTTPAddr          string
	BaseCurrency      string
	RateSourceURL     string
	RateTimezone      string
	RateCacheRedisURL string
	DocumentDir       string
	ScratchDir        string
	JWTSecret         string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:       getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:          getenvDefault("HTTP_ADDR", ":8080"),
		BaseCurrency:      getenvDefault("BASE_CURRENCY", "CZK"),
		RateSourceURL:     getenvDefault("RATE_SOURCE_URL", ""),
		RateTimezone:      getenvDefault("RATE_TIMEZONE", "Europe/Prague"),
		RateCacheRedisURL: getenvDefault("RATE_CACHE_REDIS_URL", ""),
		DocumentDir:       getenvDefault("DOCUMENT_DIR", "documents"),
		ScratchDir:        getenvDefault("SCRATCH_DIR", ""),
		JWTSecret:         getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.RateSourceURL == "" {
		log.Fatal("RATE_SOURCE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
