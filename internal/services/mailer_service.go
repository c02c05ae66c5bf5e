package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// MailerService delivers transactional email. Delivery is best effort:
// checkout and webhook processing never fail because an email bounced,
// so callers treat errors as log-and-continue.
type MailerService interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	config SMTPConfig
}

func NewSMTPMailer(config SMTPConfig) MailerService {
	return &smtpMailer{config: config}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.config.Host == "" {
		// No mail server configured. Log instead of failing so local
		// development works without SMTP.
		log.Printf("[EMAIL] To=%s, Subject=%s", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.config.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
