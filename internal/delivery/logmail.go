package delivery

import (
	"context"
	"log"
)

// LogTransport records the delivery instead of sending it. It backs the
// non-production fallback path and local development.
type LogTransport struct {
	logger *log.Logger
}

func NewLogTransport(logger *log.Logger) *LogTransport {
	if logger == nil {
		logger = log.Default()
	}
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Name() string { return "log" }

// Ready always succeeds; the log transport has no configuration.
func (t *LogTransport) Ready() error { return nil }

func (t *LogTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Printf("delivery: log transport: to=%s subject=%q attachment=%s", msg.To, msg.Subject, msg.AttachmentPath)
	return nil
}
