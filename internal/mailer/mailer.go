// Package mailer provides outbound email delivery.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidRecipient is returned for recipients that are not email addresses.
var ErrInvalidRecipient = errors.New("invalid recipient address")

// Mailer delivers a single email and reports success or failure.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// From is the sender address shown on outgoing mail.
	From string
}

// ConfigFromEnv creates an SMTPConfig from environment variables.
func ConfigFromEnv() SMTPConfig {
	port, _ := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))
	return SMTPConfig{
		Host:     getEnvOrDefault("SMTP_HOST", "localhost"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnvOrDefault("SMTP_FROM", "Air Quality Monitor <noreply@airvigil.local>"),
	}
}

// SMTPMailer sends HTML email through a plain-auth SMTP server.
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a new SMTP mailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: cfg}
}

// Send delivers one message. The context is accepted for interface symmetry;
// net/smtp does not support cancellation mid-send.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, to)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n",
		m.config.From, to, subject, body,
	))

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	if err := smtp.SendMail(addr, auth, m.envelopeFrom(), []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// envelopeFrom picks the SMTP envelope sender: the authenticated user when it
// is an address, otherwise the bare address from the From header.
func (m *SMTPMailer) envelopeFrom() string {
	if strings.Contains(m.config.Username, "@") {
		return m.config.Username
	}
	from := m.config.From
	if start := strings.LastIndex(from, "<"); start >= 0 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
