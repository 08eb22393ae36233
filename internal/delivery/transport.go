package delivery

import (
	"context"
	"errors"
)

// ErrMissingRecipient is returned by preflight when no recipient is configured.
var ErrMissingRecipient = errors.New("delivery: recipient not configured")

// Message is one outbound report delivery: a single recipient and a single
// binary attachment.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// Transport sends report messages. Ready validates configuration without
// performing any I/O so that misconfiguration fails before archive work.
type Transport interface {
	Name() string
	Ready() error
	Send(ctx context.Context, msg Message) error
}
