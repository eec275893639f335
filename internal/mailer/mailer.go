package mailer

import (
	"bytes"
	"io"

	"gopkg.in/gomail.v2"

	"parking-reservation-backend/config"
)

// Sender defines the interface for sending a notification email. Background
// jobs depend on this interface so tests can inject a recorder.
type Sender interface {
	Send(msg Message) error
}

// Message is a single outbound email, optionally with one attachment.
type Message struct {
	To                 string
	Subject            string
	Body               string
	HTML               bool
	AttachmentData     []byte
	AttachmentFilename string
}

// SMTPSender delivers messages over SMTP using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	sender string
}

// NewSMTPSender creates a sender from the SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password),
		sender: cfg.Sender,
	}
}

// Send composes and delivers a single message.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	if len(msg.AttachmentData) > 0 && msg.AttachmentFilename != "" {
		data := msg.AttachmentData
		m.Attach(msg.AttachmentFilename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(data))
			return err
		}))
	}

	return s.dialer.DialAndSend(m)
}
