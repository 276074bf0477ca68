package smtp

import (
	"errors"
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"
)

var ErrNotConfigured = errors.New("smtp mail not configured")

type ItfSmtp interface {
	SendAlert(subject string, body string) error
}

type smtp struct {
	auth       smtpPkg.Auth
	mail       string
	addr       string
	recipients []string
}

func New() (ItfSmtp, error) {
	mail := os.Getenv("SMTP_MAIL")
	recipients := splitList(os.Getenv("EDUCATOR_ALERT_EMAILS"))
	if mail == "" || len(recipients) == 0 {
		return nil, ErrNotConfigured
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	auth := smtpPkg.PlainAuth("", mail, os.Getenv("SMTP_PASSWORD"), host)

	return &smtp{
		auth:       auth,
		mail:       mail,
		addr:       host + ":" + port,
		recipients: recipients,
	}, nil
}

func (s *smtp) SendAlert(subject string, body string) error {
	message := BuildMessage(s.mail, s.recipients, subject, body)
	return smtpPkg.SendMail(s.addr, s.auth, s.mail, s.recipients, message)
}

func BuildMessage(from string, to []string, subject string, body string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from, strings.Join(to, ", "), subject, body))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
