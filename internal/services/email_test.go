package services

import (
	"strings"
	"testing"

	"github.com/dimitrije/fitlog/internal/config"
	"github.com/stretchr/testify/assert"
)

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "user@example.com",
		Password: "password",
		From:     "noreply@example.com",
	}
}

func TestEmailService_IsConfigured(t *testing.T) {
	assert.True(t, NewEmailService(smtpConfig()).IsConfigured())

	tests := []struct {
		name   string
		mutate func(*config.SMTPConfig)
	}{
		{"missing host", func(c *config.SMTPConfig) { c.Host = "" }},
		{"missing username", func(c *config.SMTPConfig) { c.Username = "" }},
		{"missing password", func(c *config.SMTPConfig) { c.Password = "" }},
		{"missing from", func(c *config.SMTPConfig) { c.From = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smtpConfig()
			tt.mutate(&cfg)
			assert.False(t, NewEmailService(cfg).IsConfigured())
		})
	}
}

func TestEmailService_SendWorkoutShared_NotConfigured(t *testing.T) {
	svc := NewEmailService(config.SMTPConfig{})

	assert.NoError(t, svc.SendWorkoutShared("to@example.com", "Push Day", "Alice", true))
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "to@example.com", "Hi", "<p>body</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: noreply@example.com\r\nTo: to@example.com\r\nSubject: Hi\r\n"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>body</p>"))
}
