package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// SMTP servers commonly cap recipients per message.
const emailBatchSize = 50

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif;">
    <h2>{{.Subject}}</h2>
    <p>{{.Body}}</p>
    <p style="color: #888;">EventEase Team</p>
  </body>
</html>
`))

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSender implements Channel using SMTP.
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string

	send   sendMailFunc
	logger zerolog.Logger
}

func NewEmailSender(host, port, username, password, fromName, fromAddr string, logger zerolog.Logger) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		FromName: fromName,
		FromAddr: fromAddr,
		send:     smtp.SendMail,
		logger:   logger.With().Str("channel", "email").Logger(),
	}
}

func (e *EmailSender) Name() string { return "email" }

// Send renders the HTML template and sends one message to the batch.
// smtp.SendMail upgrades to STARTTLS when the server offers it.
func (e *EmailSender) Send(_ context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}
	msg, err := e.buildMessage(to, subject, body)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if e.Username != "" {
		auth = smtp.PlainAuth("", e.Username, e.Password, e.Host)
	}
	addr := net.JoinHostPort(e.Host, e.Port)
	if err := e.send(addr, auth, e.FromAddr, to, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	e.logger.Debug().Int("recipients", len(to)).Str("subject", subject).Msg("email sent")
	return nil
}

func (e *EmailSender) buildMessage(to []string, subject, body string) ([]byte, error) {
	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, map[string]string{"Subject": subject, "Body": body}); err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", e.FromName, e.FromAddr)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(html.Bytes())
	return []byte(msg.String()), nil
}
