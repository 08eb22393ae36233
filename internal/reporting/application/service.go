package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ledger-cloud/internal/observability/metrics"
	"ledger-cloud/internal/reporting/archive"
	reporting "ledger-cloud/internal/reporting/domain"
	"ledger-cloud/internal/vat"

	ledger "ledger-cloud/internal/ledger/domain"
)

// ReportRepository persists report records.
type ReportRepository interface {
	FindByPeriod(ctx context.Context, period ledger.Period) (*reporting.Report, error)
	Create(ctx context.Context, rep *reporting.Report) error
	Update(ctx context.Context, rep *reporting.Report) error
	List(ctx context.Context) ([]reporting.Report, error)
}

// InvoiceSource reads period-bounded invoices.
type InvoiceSource interface {
	QueryInvoices(ctx context.Context, period ledger.Period) ([]ledger.Invoice, error)
}

// ExpenseSource reads period-bounded expenses.
type ExpenseSource interface {
	QueryExpenses(ctx context.Context, period ledger.Period) ([]ledger.Expense, error)
}

// ArchiveBuilder assembles the period archive.
type ArchiveBuilder interface {
	Build(ctx context.Context, period ledger.Period, invoices []ledger.Invoice, expenses []ledger.Expense, summary *vat.Summary) (*archive.Archive, error)
}

// Service owns the report lifecycle: record creation, the generation
// pipeline, and the terminal status transitions.
type Service struct {
	reports      ReportRepository
	invoices     InvoiceSource
	expenses     ExpenseSource
	builder      ArchiveBuilder
	manager      *DeliveryManager
	baseCurrency string
	logger       *log.Logger
	now          func() time.Time
}

// NewService constructs the report service.
func NewService(reports ReportRepository, invoices InvoiceSource, expenses ExpenseSource, builder ArchiveBuilder, manager *DeliveryManager, baseCurrency string, logger *log.Logger) (*Service, error) {
	if reports == nil {
		return nil, errors.New("report service: nil repository")
	}
	if invoices == nil || expenses == nil {
		return nil, errors.New("report service: nil ledger sources")
	}
	if builder == nil {
		return nil, errors.New("report service: nil archive builder")
	}
	if manager == nil {
		return nil, errors.New("report service: nil delivery manager")
	}
	if baseCurrency == "" {
		return nil, errors.New("report service: empty base currency")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		reports:      reports,
		invoices:     invoices,
		expenses:     expenses,
		builder:      builder,
		manager:      manager,
		baseCurrency: baseCurrency,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// Generate claims the period: it creates the pending record, or resets an
// existing one when regenerate is set. A second generation without the
// regenerate flag fails with reporting.ErrReportExists. The returned record
// is ready to be run.
func (s *Service) Generate(ctx context.Context, period ledger.Period, regenerate bool) (*reporting.Report, error) {
	if err := s.manager.Preflight(); err != nil {
		return nil, err
	}

	existing, err := s.reports.FindByPeriod(ctx, period)
	switch {
	case err == nil:
		if !regenerate {
			return nil, reporting.ErrReportExists
		}
		if err := existing.ResetPending(s.now()); err != nil {
			return nil, err
		}
		if err := s.reports.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, reporting.ErrReportNotFound):
		rep := reporting.NewReport(period, s.now())
		if err := s.reports.Create(ctx, rep); err != nil {
			return nil, err
		}
		return rep, nil
	default:
		return nil, err
	}
}

// Run executes one generation attempt end to end: ledger queries, VAT
// aggregation, archive build, delivery. On success the report is marked sent
// and persisted; on failure the error propagates and the report stays
// pending so the caller can retry or fail it.
func (s *Service) Run(ctx context.Context, rep *reporting.Report) (err error) {
	if rep == nil {
		return reporting.ErrNilReport
	}
	started := s.now()
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveReportGenerate(result, s.now().Sub(started))
	}()

	invoices, err := s.invoices.QueryInvoices(ctx, rep.Period)
	if err != nil {
		return fmt.Errorf("report service: query invoices: %w", err)
	}
	expenses, err := s.expenses.QueryExpenses(ctx, rep.Period)
	if err != nil {
		return fmt.Errorf("report service: query expenses: %w", err)
	}

	summary := vat.Aggregate(invoices, expenses, s.baseCurrency)
	for _, warning := range vat.Check(summary) {
		s.logger.Printf("report service: period %s: %s: %s", rep.Period.Label(), warning.Code, warning.Message)
	}
	if sales := vat.AggregateEUSales(invoices, s.baseCurrency); sales.ReportingRequired {
		s.logger.Printf("report service: period %s: EU sales %.2f %s exceed reporting threshold", rep.Period.Label(), sales.Total, s.baseCurrency)
	}

	arch, err := s.builder.Build(ctx, rep.Period, invoices, expenses, summary)
	if err != nil {
		return fmt.Errorf("report service: build archive: %w", err)
	}

	if err = s.manager.Deliver(ctx, arch, summary); err != nil {
		return fmt.Errorf("report service: deliver: %w", err)
	}

	if err = rep.MarkSent(s.now()); err != nil {
		return err
	}
	if err = s.reports.Update(ctx, rep); err != nil {
		return err
	}
	s.logger.Printf("report service: period %s delivered", rep.Period.Label())
	return nil
}

// Summarize aggregates the period's VAT position and EU sales exposure
// without touching report records. Backs the summary and quarterly exports.
func (s *Service) Summarize(ctx context.Context, period ledger.Period) (*vat.Summary, vat.EUSales, error) {
	invoices, err := s.invoices.QueryInvoices(ctx, period)
	if err != nil {
		return nil, vat.EUSales{}, fmt.Errorf("report service: query invoices: %w", err)
	}
	expenses, err := s.expenses.QueryExpenses(ctx, period)
	if err != nil {
		return nil, vat.EUSales{}, fmt.Errorf("report service: query expenses: %w", err)
	}
	summary := vat.Aggregate(invoices, expenses, s.baseCurrency)
	return summary, vat.AggregateEUSales(invoices, s.baseCurrency), nil
}

// Fail marks the report failed after all attempts are exhausted.
func (s *Service) Fail(ctx context.Context, rep *reporting.Report) error {
	if rep == nil {
		return reporting.ErrNilReport
	}
	if err := rep.MarkFailed(s.now()); err != nil {
		return err
	}
	return s.reports.Update(ctx, rep)
}

// List returns all report records.
func (s *Service) List(ctx context.Context) ([]reporting.Report, error) {
	return s.reports.List(ctx)
}
