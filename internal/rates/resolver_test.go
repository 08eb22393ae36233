package rates

import (
	"context"
	"errors"
	"log"
	"math"
	"os"
	"testing"
	"time"
)

type stubSource struct {
	rates map[string]float64
	err   error
	calls int
}

func (s *stubSource) DailyRate(_ context.Context, currency string, _ time.Time) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	rate, ok := s.rates[currency]
	if !ok {
		return 0, errNotQuoted
	}
	return rate, nil
}

var errNotQuoted = errors.New("currency not quoted")

func newTestResolver(t *testing.T, source *stubSource) *Resolver {
	t.Helper()
	resolver, err := NewResolver(source, NewMemoryStore(), "CZK", time.UTC, log.New(os.Stderr, "", 0))
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

func TestGetRateIdentity(t *testing.T) {
	source := &stubSource{rates: map[string]float64{"EUR": 25.0}}
	resolver := newTestResolver(t, source)

	rate := resolver.GetRate(context.Background(), "EUR", "EUR")
	if rate != 1.0 {
		t.Fatalf("expected exactly 1.0, got %v", rate)
	}
	if source.calls != 0 {
		t.Fatalf("identity lookup must not hit the source, got %d calls", source.calls)
	}
}

func TestGetRateCrossViaBase(t *testing.T) {
	source := &stubSource{rates: map[string]float64{"EUR": 25.0, "USD": 20.0}}
	resolver := newTestResolver(t, source)
	ctx := context.Background()

	if rate := resolver.GetRate(ctx, "EUR", "CZK"); rate != 25.0 {
		t.Fatalf("EUR->CZK: expected 25.0, got %v", rate)
	}
	if rate := resolver.GetRate(ctx, "CZK", "EUR"); math.Abs(rate-1.0/25.0) > 1e-12 {
		t.Fatalf("CZK->EUR: expected %v, got %v", 1.0/25.0, rate)
	}
	if rate := resolver.GetRate(ctx, "EUR", "USD"); math.Abs(rate-1.25) > 1e-12 {
		t.Fatalf("EUR->USD: expected 1.25, got %v", rate)
	}
}

func TestGetRateTransitivity(t *testing.T) {
	source := &stubSource{rates: map[string]float64{"EUR": 25.0, "USD": 20.0}}
	resolver := newTestResolver(t, source)
	ctx := context.Background()

	forward := resolver.GetRate(ctx, "EUR", "USD")
	backward := resolver.GetRate(ctx, "USD", "EUR")
	if math.Abs(forward*backward-1.0) > 1e-9 {
		t.Fatalf("round trip must be neutral: %v * %v = %v", forward, backward, forward*backward)
	}
}

func TestGetRateFailureFallsBackToNeutral(t *testing.T) {
	source := &stubSource{err: context.DeadlineExceeded}
	resolver := newTestResolver(t, source)

	if rate := resolver.GetRate(context.Background(), "EUR", "CZK"); rate != 1.0 {
		t.Fatalf("failed lookup must yield neutral 1.0, got %v", rate)
	}
}

func TestGetRateUsesCache(t *testing.T) {
	source := &stubSource{rates: map[string]float64{"EUR": 25.0}}
	resolver := newTestResolver(t, source)
	ctx := context.Background()

	resolver.GetRate(ctx, "EUR", "CZK")
	resolver.GetRate(ctx, "EUR", "CZK")
	if source.calls != 1 {
		t.Fatalf("second lookup must come from cache, got %d source calls", source.calls)
	}
}

func TestConvertRounding(t *testing.T) {
	source := &stubSource{rates: map[string]float64{"EUR": 25.335}}
	resolver := newTestResolver(t, source)
	ctx := context.Background()

	got := resolver.Convert(ctx, 10.0, "EUR", "CZK")
	if got != 253.35 {
		t.Fatalf("expected 253.35, got %v", got)
	}
	if got := resolver.Convert(ctx, 100.456, "CZK", "CZK"); got != 100.46 {
		t.Fatalf("identity conversion must still round, got %v", got)
	}
}

func TestEffectiveDate(t *testing.T) {
	source := &stubSource{}
	resolver := newTestResolver(t, source)

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "before publish time uses previous day",
			now:  time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC),
			want: "2024-03-12",
		},
		{
			name: "after publish time uses same day",
			now:  time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC),
			want: "2024-03-13",
		},
		{
			name: "exactly at publish time uses same day",
			now:  time.Date(2024, 3, 13, 14, 30, 0, 0, time.UTC),
			want: "2024-03-13",
		},
		{
			name: "monday morning walks back to friday",
			now:  time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
			want: "2024-03-08",
		},
		{
			name: "saturday walks back to friday",
			now:  time.Date(2024, 3, 16, 16, 0, 0, 0, time.UTC),
			want: "2024-03-15",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver.now = func() time.Time { return tc.now }
			got := resolver.EffectiveDate().Format("2006-01-02")
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	store.Set(ctx, "k", "25.0", time.Hour)
	if value, ok := store.Get(ctx, "k"); !ok || value != "25.0" {
		t.Fatalf("expected fresh entry, got %q %v", value, ok)
	}

	current = current.Add(2 * time.Hour)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}

	store.Set(ctx, "z", "1", 0)
	if _, ok := store.Get(ctx, "z"); ok {
		t.Fatal("non-positive ttl must not store")
	}
}
