package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ledger-cloud/internal/delivery"
	"ledger-cloud/internal/observability/metrics"
	"ledger-cloud/internal/reporting/archive"
	"ledger-cloud/internal/vat"
)

// DeliveryManager hands a finished archive to the configured transport. It
// owns archive cleanup: whatever happens, no scratch files survive a
// delivery attempt.
type DeliveryManager struct {
	policy delivery.Policy
	logger *log.Logger
}

// NewDeliveryManager constructs the manager.
func NewDeliveryManager(policy delivery.Policy, logger *log.Logger) (*DeliveryManager, error) {
	if policy.Primary == nil {
		return nil, errors.New("delivery manager: no primary transport")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DeliveryManager{policy: policy, logger: logger}, nil
}

// Preflight validates the delivery configuration. Called before any archive
// work so that misconfiguration never wastes a pipeline run.
func (m *DeliveryManager) Preflight() error {
	return m.policy.Preflight()
}

// Deliver sends the archive to the recipient. The primary transport is tried
// first; outside production a failure falls back to the log transport. The
// archive's scratch directory is removed on every exit path.
func (m *DeliveryManager) Deliver(ctx context.Context, arch *archive.Archive, summary *vat.Summary) error {
	defer func() {
		if err := arch.Cleanup(); err != nil {
			m.logger.Printf("delivery manager: cleanup: %v", err)
		}
	}()

	if m.policy.Recipient == "" {
		return delivery.ErrMissingRecipient
	}
	msg := delivery.Message{
		To:             m.policy.Recipient,
		Subject:        "Podklady pro účetní: " + arch.Period.Label(),
		Body:           buildDeliveryBody(arch, summary),
		AttachmentPath: arch.Path,
	}

	primaryErr := m.policy.Primary.Send(ctx, msg)
	if primaryErr == nil {
		metrics.IncDelivery(m.policy.Primary.Name(), metrics.ResultSuccess)
		return nil
	}
	metrics.IncDelivery(m.policy.Primary.Name(), metrics.ResultError)
	m.logger.Printf("delivery manager: %s transport: %v", m.policy.Primary.Name(), primaryErr)

	if !m.policy.FallbackAllowed || m.policy.Fallback == nil {
		return primaryErr
	}
	if err := m.policy.Fallback.Send(ctx, msg); err != nil {
		metrics.IncDelivery(m.policy.Fallback.Name(), metrics.ResultError)
		return fmt.Errorf("delivery manager: fallback after %v: %w", primaryErr, err)
	}
	metrics.IncDelivery(m.policy.Fallback.Name(), metrics.ResultSuccess)
	m.logger.Printf("delivery manager: delivered via %s fallback", m.policy.Fallback.Name())
	return nil
}

func buildDeliveryBody(arch *archive.Archive, summary *vat.Summary) string {
	body := fmt.Sprintf("V příloze zasíláme podklady pro účetní za období %s.\n", arch.Period.Label())
	if summary != nil {
		body += fmt.Sprintf("\nDPH na výstupu: %.2f\nDPH na vstupu: %.2f\nDPH celkem: %.2f (%s)\n",
			summary.OutputVATTotal, summary.InputVATTotal, summary.NetVATTotal, summary.Status)
	}
	body += fmt.Sprintf("\nObsah archivu: %d souborů.\n", len(arch.MemberFiles))
	return body
}
