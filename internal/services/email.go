package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/dimitrije/fitlog/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, buildMessage(s.cfg.From, to, subject, body))
}

func (s *EmailService) SendWorkoutShared(to, workoutName, sharerName string, canEdit bool) error {
	access := "view and train with"
	if canEdit {
		access = "view, train with and edit"
	}

	subject := fmt.Sprintf("%s shared a workout with you", sharerName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>New shared workout</h2>
			<p><strong>%s</strong> shared the workout <strong>%s</strong> with you.</p>
			<p>Once you accept it you can %s it.</p>
		</body>
		</html>
	`, html.EscapeString(sharerName), html.EscapeString(workoutName), access)

	return s.Send(to, subject, body)
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, body))
}
