package mailer

import (
	"testing"

	"school_admin_backend/internal/config"
	"school_admin_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

func TestNewSelectsBackendByAPIKey(t *testing.T) {
	console := New(&config.MailConfig{})
	assert.IsType(t, &ConsoleMailer{}, console)

	sendgrid := New(&config.MailConfig{
		SendgridAPIKey: "SG.test-key",
		FromName:       "School Admin",
		FromAddress:    "noreply@school-admin.local",
	})
	assert.IsType(t, &SendgridMailer{}, sendgrid)
}

func TestConsoleMailerNeverFails(t *testing.T) {
	m := &ConsoleMailer{}
	assert.NoError(t, m.Send("someone@school.test", "Reset your password", "link"))
}
