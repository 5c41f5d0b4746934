// Package mail delivers outgoing e-mail.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beside-app/beside-api/internal/core/ports"
)

var errHeaderInjection = errors.New("mail header contains a line break")

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer sends HTML mail through an authenticated relay. Port 465 uses
// implicit TLS; any other port upgrades with STARTTLS.
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	body, err := buildMessage(m.cfg.From, msg)
	if err != nil {
		return err
	}

	conn, err := m.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if m.cfg.Port != "465" {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *SMTPMailer) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	if m.cfg.Port == "465" {
		d := &tls.Dialer{Config: &tls.Config{ServerName: m.cfg.Host}}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

func buildMessage(from string, msg ports.MailMessage) ([]byte, error) {
	for _, h := range []string{from, msg.To, msg.Subject} {
		if strings.ContainsAny(h, "\r\n") {
			return nil, errHeaderInjection
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String()), nil
}

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP host is configured. The body carries reset codes, so it is
// only logged when withBody is set.
type LogMailer struct {
	log      zerolog.Logger
	withBody bool
}

func NewLogMailer(log zerolog.Logger, withBody bool) *LogMailer {
	return &LogMailer{log: log, withBody: withBody}
}

func (m *LogMailer) Send(_ context.Context, msg ports.MailMessage) error {
	ev := m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject)
	if m.withBody {
		ev = ev.Str("html", msg.HTML)
	}
	ev.Msg("mail not sent: smtp is not configured")
	return nil
}
