// services/mail_sender.go
package services

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// MailSender delivers rendered mail over the configured relay.
type MailSender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender sends through an application-password authenticated SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

func NewSMTPSender() *SMTPSender {
	port := 587
	if env := os.Getenv("SMTP_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}
	fromName := os.Getenv("SMTP_FROM_NAME")
	if fromName == "" {
		fromName = "Randevu Sistemi"
	}
	return &SMTPSender{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_APP_PASSWORD"),
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	if s.host == "" || s.username == "" {
		return errors.New("smtp relay not configured")
	}
	if to == "" {
		return errors.New("no recipient address")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return dialer.DialAndSend(msg)
}
