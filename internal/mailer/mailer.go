package mailer

import (
	"fmt"

	"school_admin_backend/internal/config"
	"school_admin_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer is the narrow email contract the core depends on; delivery is
// an external collaborator.
type Mailer interface {
	Send(to, subject, body string) error
}

// New returns a SendGrid-backed mailer, or the console mailer when no
// API key is configured (development mode).
func New(cfg *config.MailConfig) Mailer {
	if cfg.SendgridAPIKey == "" {
		return &ConsoleMailer{}
	}
	return &SendgridMailer{
		client:   sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromName: cfg.FromName,
		fromAddr: cfg.FromAddress,
	}
}

type SendgridMailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func (m *SendgridMailer) Send(to, subject, body string) error {
	from := mail.NewEmail(m.fromName, m.fromAddr)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, "")

	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ConsoleMailer logs messages instead of delivering them.
type ConsoleMailer struct{}

func (m *ConsoleMailer) Send(to, subject, body string) error {
	logger.Log.Info("console mailer",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
