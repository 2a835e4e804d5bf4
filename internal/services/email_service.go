package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, username string) error
	SendTaskAssignedEmail(email, taskKey, title string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, username string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to TaskControl!")

	body := fmt.Sprintf(`
		<h2>Welcome to TaskControl, %s!</h2>
		<p>Thank you for registering with us. Your account has been successfully created.</p>
		<p>Create a project, invite your team and start tracking.</p>
		<p>Best regards,<br>The TaskControl Team</p>
	`, username)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendTaskAssignedEmail(email, taskKey, title string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("[%s] Task assigned to you", taskKey))

	body := fmt.Sprintf(`
		<h3>A task has been assigned to you</h3>
		<p><strong>%s</strong> — %s</p>
		<p>Open TaskControl to see the details.</p>
	`, taskKey, title)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send task assigned email: %w", err)
	}

	return nil
}
