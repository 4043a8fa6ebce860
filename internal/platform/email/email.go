// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

/*
Package email delivers transactional mail for the Rooftop platform.

Three kinds of mail leave the system: registration confirmations, password
reset links, and buyer inquiries forwarded to an ad owner. All of them are
small single-recipient HTML messages, so the provider speaks plain SMTP with
STARTTLS upgrade left to the server.

Architecture:

  - Mailer: The interface consumed by domain services.
  - SMTPMailer: Production implementation over net/smtp.
  - LogMailer: Development fallback that writes mail to the log instead.
*/
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	// HTMLBody is the rendered message body. All Rooftop mail is HTML.
	HTMLBody string
}

// Mailer is the delivery interface consumed by domain services.
//
// # Why an interface?
//
// Services validate and compose mail; only the edge cares whether delivery
// happens over SMTP or lands in a test capture.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// # SMTP Delivery

// SMTPMailer delivers mail through a standard SMTP relay with PLAIN auth.
type SMTPMailer struct {
	addr   string
	host   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger
}

// NewSMTPMailer builds a mailer for the given relay.
//
// Parameters:
//   - host, port: The SMTP relay endpoint.
//   - username, password: PLAIN auth credentials. Leave empty for an open relay.
//   - from: The From address stamped on all outgoing mail.
func NewSMTPMailer(host string, port int, username, password, from string, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		host:   host,
		from:   from,
		auth:   auth,
		logger: logger,
	}
}

// Send builds the MIME message and hands it to the relay.
//
// The ctx parameter is accepted for interface symmetry; net/smtp does not
// support cancellation mid-transaction.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := buildMIME(m.from, msg)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("email: send to %s failed: %w", msg.To, err)
	}

	m.logger.InfoContext(ctx, "email_sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// buildMIME assembles the raw SMTP payload with CRLF line endings.
func buildMIME(from string, msg Message) []byte {
	builder := &strings.Builder{}

	builder.WriteString(fmt.Sprintf("From: %s\r\n", from))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	builder.WriteString(msg.HTMLBody)

	return []byte(builder.String())
}

// # Development Fallback

// LogMailer writes outgoing mail to the structured log instead of a relay.
// Used when no SMTP_HOST is configured (local development).
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs the message and reports success.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.Logger.InfoContext(ctx, "email_logged_not_sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.HTMLBody),
	)
	return nil
}
