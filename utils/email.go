package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	FromEmail       string
	FrontendBaseURL string
}

var emailConfig EmailConfig

// InitEmailConfig initializes email configuration
func InitEmailConfig(cfg EmailConfig) {
	emailConfig = cfg
}

// SendPasswordResetEmail sends a reset link carrying the reset token.
func SendPasswordResetEmail(to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", emailConfig.FrontendBaseURL, token)
	subject := "Password Reset Request"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Password Reset Request</h2>
			<p>Click the link below to reset your password:</p>
			<p><a href="%s">Reset Password</a></p>
			<p>This link will expire in 1 hour.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</body>
		</html>
	`, resetURL)

	return sendEmail(to, subject, body)
}

// SendCollaboratorAddedEmail notifies a user they were given access to a
// document.
func SendCollaboratorAddedEmail(to, documentTitle, role string) error {
	subject := "You were added to a document"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>New Document Access</h2>
			<p>You have been added to <strong>%s</strong> as %s.</p>
			<p><a href="%s/documents">Open your documents</a></p>
		</body>
		</html>
	`, documentTitle, role, emailConfig.FrontendBaseURL)

	return sendEmail(to, subject, body)
}

// sendEmail is a helper function to send emails
func sendEmail(to, subject, body string) error {
	if emailConfig.SMTPHost == "" {
		return fmt.Errorf("email configuration not initialized")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", emailConfig.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(emailConfig.SMTPHost, emailConfig.SMTPPort, emailConfig.SMTPUsername, emailConfig.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
