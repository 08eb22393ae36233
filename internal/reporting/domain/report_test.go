package reporting

import (
	"errors"
	"testing"
	"time"

	ledger "ledger-cloud/internal/ledger/domain"
)

func testPeriod(t *testing.T) ledger.Period {
	t.Helper()
	period, err := ledger.NewPeriod(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("new period: %v", err)
	}
	return period
}

func TestBuildReportIDIsStable(t *testing.T) {
	period := testPeriod(t)
	first := BuildReportID(period)
	second := BuildReportID(period)
	if first != second {
		t.Fatalf("same period must derive the same id: %s vs %s", first, second)
	}

	other, _ := ledger.NewPeriod(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	)
	if BuildReportID(other) == first {
		t.Fatal("different periods must derive different ids")
	}
}

func TestReportTransitions(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	rep := NewReport(testPeriod(t), now)
	if rep.Status != StatusPending {
		t.Fatalf("new report must be pending, got %s", rep.Status)
	}

	if err := rep.MarkSent(now.Add(time.Minute)); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if rep.Status != StatusSent || rep.SentAt.IsZero() {
		t.Fatalf("after MarkSent: status=%s sentAt=%s", rep.Status, rep.SentAt)
	}

	if err := rep.MarkFailed(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("sent report must reject MarkFailed, got %v", err)
	}
	if err := rep.MarkSent(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("sent report must reject a second MarkSent, got %v", err)
	}
}

func TestReportResetPending(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	rep := NewReport(testPeriod(t), now)
	_ = rep.MarkSent(now.Add(time.Minute))

	later := now.Add(time.Hour)
	if err := rep.ResetPending(later); err != nil {
		t.Fatalf("reset pending: %v", err)
	}
	if rep.Status != StatusPending {
		t.Fatalf("expected pending, got %s", rep.Status)
	}
	if !rep.SentAt.IsZero() {
		t.Fatal("reset must clear SentAt")
	}
	if !rep.GeneratedAt.Equal(later) {
		t.Fatalf("reset must refresh GeneratedAt, got %s", rep.GeneratedAt)
	}

	if err := rep.MarkFailed(later.Add(time.Minute)); err != nil {
		t.Fatalf("pending after reset must allow MarkFailed: %v", err)
	}
	if rep.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", rep.Status)
	}
}

func TestNilReportGuards(t *testing.T) {
	var rep *Report
	now := time.Now()
	if err := rep.MarkSent(now); !errors.Is(err, ErrNilReport) {
		t.Fatalf("expected ErrNilReport, got %v", err)
	}
	if err := rep.MarkFailed(now); !errors.Is(err, ErrNilReport) {
		t.Fatalf("expected ErrNilReport, got %v", err)
	}
	if err := rep.ResetPending(now); !errors.Is(err, ErrNilReport) {
		t.Fatalf("expected ErrNilReport, got %v", err)
	}
}
