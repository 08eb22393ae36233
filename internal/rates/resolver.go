package rates

import (
	"context"
	"errors"
	"log"
	"math"
	"strconv"
	"time"

	"ledger-cloud/internal/observability/metrics"
)

const (
	// DefaultTTL bounds how long a fetched rate may be reused.
	DefaultTTL = time.Hour

	publishHour   = 14
	publishMinute = 30
)

// Resolver converts amounts between currencies using daily published rates
// against the base currency. Lookups degrade to a neutral rate of 1.0 on any
// upstream failure so that currency display never blocks the caller.
type Resolver struct {
	source RateSource
	store  Store
	base   string
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
	logger *log.Logger
}

// NewResolver constructs a Resolver. location is the rate source's local
// timezone, used by the effective-date rule.
func NewResolver(source RateSource, store Store, baseCurrency string, location *time.Location, logger *log.Logger) (*Resolver, error) {
	if source == nil {
		return nil, errors.New("rate resolver: nil source")
	}
	if store == nil {
		return nil, errors.New("rate resolver: nil store")
	}
	if baseCurrency == "" {
		return nil, errors.New("rate resolver: empty base currency")
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		source: source,
		store:  store,
		base:   baseCurrency,
		ttl:    DefaultTTL,
		loc:    location,
		now:    func() time.Time { return time.Now() },
		logger: logger,
	}, nil
}

// GetRate returns the rate converting one unit of from into to. Identity
// lookups return exactly 1.0 without touching the cache or the network.
func (r *Resolver) GetRate(ctx context.Context, from, to string) float64 {
	if from == to {
		return 1.0
	}
	date := r.EffectiveDate()
	pairKey := "rates:pair:" + from + ":" + to + ":" + date.Format("2006-01-02")
	if value, ok := r.store.Get(ctx, pairKey); ok {
		if rate, err := strconv.ParseFloat(value, 64); err == nil && rate > 0 {
			metrics.IncRateCacheHit("pair")
			return rate
		}
	}

	rate, err := r.crossRate(ctx, from, to, date)
	if err != nil {
		metrics.IncRateFetch(metrics.ResultError)
		r.logger.Printf("rate resolver: %s->%s on %s: %v (using neutral rate)", from, to, date.Format("2006-01-02"), err)
		return 1.0
	}
	metrics.IncRateFetch(metrics.ResultSuccess)
	r.store.Set(ctx, pairKey, strconv.FormatFloat(rate, 'f', -1, 64), r.ttl)
	return rate
}

// Convert converts amount from one currency to another, rounded half-up to
// two decimals.
func (r *Resolver) Convert(ctx context.Context, amount float64, from, to string) float64 {
	if from == to {
		return round2(amount)
	}
	return round2(amount * r.GetRate(ctx, from, to))
}

// EffectiveDate returns the calendar date whose published rate applies right
// now: the previous day before the daily publish time, walked back to the
// nearest non-weekend day. Computed fresh on every call.
func (r *Resolver) EffectiveDate() time.Time {
	local := r.now().In(r.loc)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc)
	beforePublish := local.Hour() < publishHour ||
		(local.Hour() == publishHour && local.Minute() < publishMinute)
	if beforePublish {
		date = date.AddDate(0, 0, -1)
	}
	for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, -1)
	}
	return date
}

// crossRate pivots through the base currency: rate(A->B) = rate(A->base) /
// rate(B->base), with direct lookups when either side is the base.
func (r *Resolver) crossRate(ctx context.Context, from, to string, date time.Time) (float64, error) {
	if from == r.base {
		toBase, err := r.baseRate(ctx, to, date)
		if err != nil {
			return 0, err
		}
		return 1.0 / toBase, nil
	}
	fromBase, err := r.baseRate(ctx, from, date)
	if err != nil {
		return 0, err
	}
	if to == r.base {
		return fromBase, nil
	}
	toBase, err := r.baseRate(ctx, to, date)
	if err != nil {
		return 0, err
	}
	return fromBase / toBase, nil
}

// baseRate returns base-currency units per one unit of currency, cached per
// (currency, effective date).
func (r *Resolver) baseRate(ctx context.Context, currency string, date time.Time) (float64, error) {
	key := "rates:" + r.base + ":" + currency + ":" + date.Format("2006-01-02")
	if value, ok := r.store.Get(ctx, key); ok {
		if rate, err := strconv.ParseFloat(value, 64); err == nil && rate > 0 {
			metrics.IncRateCacheHit("currency")
			return rate, nil
		}
	}
	rate, err := r.source.DailyRate(ctx, currency, date)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, errors.New("rate resolver: non-positive rate from source")
	}
	r.store.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), r.ttl)
	return rate, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
