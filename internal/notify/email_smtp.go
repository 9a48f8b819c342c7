package notify

import (
	"fmt"
	"net/smtp"

	"github.com/salontid/salontid-api/internal/config"
)

type SMTPEmail struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPEmail(cfg *config.Config) *SMTPEmail {
	return &SMTPEmail{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

func (s *SMTPEmail) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body,
	)

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	return smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, []byte(msg))
}

var _ EmailSender = (*SMTPEmail)(nil)
