package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// SMTPConfig holds mail server settings for the SMTP transport
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPTransport delivers digests over SMTP
type SMTPTransport struct {
	config SMTPConfig
}

// NewSMTPTransport constructs an SMTP transport
func NewSMTPTransport(config SMTPConfig) *SMTPTransport {
	return &SMTPTransport{config: config}
}

// Send delivers one message. The context is accepted for interface symmetry;
// the underlying SMTP dial is bounded by the server handshake.
func (t *SMTPTransport) Send(_ context.Context, to, subject, body string) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Study Scout <%s>", t.config.From)
	mail.To = []string{to}
	mail.Subject = subject
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", t.config.Host, t.config.Port)
	auth := smtp.PlainAuth("", t.config.Username, t.config.Password, t.config.Host)

	err := mail.Send(addr, auth)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		// Local relays (and test servers) often run without auth
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
