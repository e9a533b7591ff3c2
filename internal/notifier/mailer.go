package notifier

import (
	"fmt"
	"net/smtp"
)

// SMTPMailer sends mail through a single SMTP account with PLAIN auth.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := "To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}
