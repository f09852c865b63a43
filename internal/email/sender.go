package email

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. Services only depend on this
// interface so tests and local runs can swap the SMTP transport out.
type Sender interface {
	SendVerificationEmail(to, name, token string) error
	SendPasswordResetEmail(to, name, token string) error
	SendEnrollmentEmail(to, name, courseTitle string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	PublicURL string
}

// SMTPSender sends mail through a real SMTP relay via gomail.
type SMTPSender struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.config.PublicURL, token)
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Confirm your email address to activate your account:</p>
		<p><a href="%s">Verify email</a></p>
		<p>The link expires in 24 hours.</p>`, name, link)
	return s.send(to, "Verify your email", body)
}

func (s *SMTPSender) SendPasswordResetEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.config.PublicURL, token)
	body := fmt.Sprintf(`
		<h2>Hello, %s</h2>
		<p>We received a request to reset your password:</p>
		<p><a href="%s">Reset password</a></p>
		<p>The link expires in 1 hour. If you did not request this, ignore this email.</p>`, name, link)
	return s.send(to, "Reset your password", body)
}

func (s *SMTPSender) SendEnrollmentEmail(to, name, courseTitle string) error {
	body := fmt.Sprintf(`
		<h2>Hello, %s</h2>
		<p>Your enrollment in <b>%s</b> is now active. Happy learning!</p>`, name, courseTitle)
	return s.send(to, "Enrollment confirmed", body)
}

// NoopSender logs instead of sending. Used when SMTP is not configured.
type NoopSender struct {
	logger *slog.Logger
}

func NewNoopSender(logger *slog.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) SendVerificationEmail(to, _, token string) error {
	s.logger.Info("email delivery disabled, skipping verification email", "to", to, "token", token)
	return nil
}

func (s *NoopSender) SendPasswordResetEmail(to, _, token string) error {
	s.logger.Info("email delivery disabled, skipping password reset email", "to", to, "token", token)
	return nil
}

func (s *NoopSender) SendEnrollmentEmail(to, _, courseTitle string) error {
	s.logger.Info("email delivery disabled, skipping enrollment email", "to", to, "course", courseTitle)
	return nil
}
