package application

import (
	"context"
	"log"
	"sync"
	"time"

	reporting "ledger-cloud/internal/reporting/domain"
)

const (
	defaultRunTimeout = 5 * time.Minute
	defaultAttempts   = 2
	defaultBackoff    = 15 * time.Second
)

// Runner executes report generation in the background with bounded retries.
// When every attempt fails the report is marked failed so the record never
// stays pending forever.
type Runner struct {
	service *Service
	logger  *log.Logger

	timeout  time.Duration
	attempts int
	backoff  time.Duration
	sleep    func(time.Duration)

	wg sync.WaitGroup
}

// NewRunner constructs a Runner with default timing.
func NewRunner(service *Service, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		service:  service,
		logger:   logger,
		timeout:  defaultRunTimeout,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		sleep:    time.Sleep,
	}
}

// Launch starts one background generation for an already claimed report.
func (r *Runner) Launch(rep *reporting.Report) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute(rep)
	}()
}

// Wait blocks until all launched runs finish. Used on shutdown and in tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) execute(rep *reporting.Report) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		lastErr = r.service.Run(ctx, rep)
		cancel()
		if lastErr == nil {
			return
		}
		r.logger.Printf("report runner: period %s attempt %d/%d: %v", rep.Period.Label(), attempt, r.attempts, lastErr)
		if attempt < r.attempts {
			r.sleep(r.backoff)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.service.Fail(ctx, rep); err != nil {
		r.logger.Printf("report runner: period %s mark failed: %v", rep.Period.Label(), err)
		return
	}
	r.logger.Printf("report runner: period %s failed after %d attempts: %v", rep.Period.Label(), r.attempts, lastErr)
}
