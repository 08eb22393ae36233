package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strconv"
)

// SMTPTransport is the primary transport: one email with the archive attached.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPTransport constructs the transport from configuration. Validation
// happens in Ready so that a partially configured transport can still be
// built in environments that will never use it.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// Name identifies the transport in logs and metrics.
func (t *SMTPTransport) Name() string { return "smtp" }

// Ready checks that the provider credentials are present.
func (t *SMTPTransport) Ready() error {
	if t == nil {
		return errors.New("delivery: nil smtp transport")
	}
	if t.host == "" {
		return errors.New("delivery: smtp host not configured")
	}
	if t.from == "" {
		return errors.New("delivery: smtp sender not configured")
	}
	if t.username == "" || t.password == "" {
		return errors.New("delivery: smtp credentials not configured")
	}
	return nil
}

// Send delivers the message with its attachment over SMTP.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := t.Ready(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := t.buildMIME(msg)
	if err != nil {
		return err
	}
	addr := t.host + ":" + strconv.Itoa(t.port)
	auth := smtp.PlainAuth("", t.username, t.password, t.host)
	if err := smtp.SendMail(addr, auth, t.from, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("delivery: smtp send: %w", err)
	}
	return nil
}

// buildMIME assembles a multipart/mixed message with the archive as a
// base64-encoded attachment.
func (t *SMTPTransport) buildMIME(msg Message) ([]byte, error) {
	attachment, err := os.ReadFile(msg.AttachmentPath)
	if err != nil {
		return nil, fmt.Errorf("delivery: read attachment: %w", err)
	}
	fileName := filepath.Base(msg.AttachmentPath)

	const boundary = "ledger-cloud-report"
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", t.from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(msg.Body)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: application/zip; name=%q\r\n", fileName)
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n", fileName)
	fmt.Fprintf(&buf, "Content-Transfer-Encoding: base64\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > 0 {
		line := encoded
		if len(line) > 76 {
			line = encoded[:76]
		}
		buf.WriteString(line)
		buf.WriteString("\r\n")
		encoded = encoded[len(line):]
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes(), nil
}
