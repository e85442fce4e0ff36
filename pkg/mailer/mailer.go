// Package mailer sends outbound notification mail. Delivery is always
// fire-and-forget: a failed send is logged and never fails the operation
// that triggered it.
package mailer

import (
	"fmt"
	"net/smtp"
	"os"

	"campushub.events/configs/configslog"

	"go.uber.org/zap"
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// New selects the implementation from MAILER_DRIVER: "smtp" for real
// delivery, anything else (including unset) logs instead of sending.
func New() Mailer {
	if os.Getenv("MAILER_DRIVER") == "smtp" {
		return NewSMTPMailer()
	}
	return LogMailer{}
}

// SendAsync delivers in a goroutine and only logs failures.
func SendAsync(m Mailer, to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			configslog.Log.Error("mail delivery failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}

// SMTPMailer sends via the SMTP_* environment configuration.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     getEnv("SMTP_PORT", "587"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnv("SMTP_FROM", "noreply@campushub.events"),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// LogMailer is the non-production stand-in: it writes the message to the log.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	configslog.SLog.Infow("mail (log driver)", "to", to, "subject", subject, "body", body)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
