package email

import (
	"gopkg.in/gomail.v2"

	"markethub_backend/internal/config"
)

// Sender отправляет одно HTML письмо
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender реализация Sender поверх gomail
type SMTPSender struct {
	cfg *config.Config
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Email.FromEmail, s.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.Username,
		s.cfg.Email.Password,
	)

	return d.DialAndSend(m)
}

// NoopSender для окружений без SMTP (dev, тесты)
type NoopSender struct{}

func (NoopSender) Send(to, subject, htmlBody string) error {
	return nil
}
