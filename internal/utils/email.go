package utils

import (
	"fmt"

	"shiftscore_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers transactional mail over SMTP.
type EmailSender interface {
	Send(to, subject, body string) error
	SendExpiryNotice(to, tierName string, daysLeft int) error
}

type smtpSender struct {
	cfg *config.Config
}

func NewEmailSender(cfg *config.Config) EmailSender {
	return &smtpSender{cfg: cfg}
}

func (e *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(e.cfg.Email.FromEmail, e.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUser,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (e *smtpSender) SendExpiryNotice(to, tierName string, daysLeft int) error {
	subject := "Your ShiftScore subscription is about to expire"
	body := fmt.Sprintf(
		"<p>Your <b>%s</b> plan expires in %d day(s).</p>"+
			"<p>Renew now to keep full facility scores, Sully and your saved searches.</p>",
		tierName, daysLeft,
	)
	return e.Send(to, subject, body)
}
