package service

import (
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/models"
)

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendVerificationEmail(user *models.User, token string) error
	SendWelcomeEmail(user *models.User) error
	SendReportNotification(report *model.Report) error
}

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	adminEmail   string
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func NewEmailService() IEmailService {
	return &EmailService{
		smtpHost:     readSecret("smtp_host"),
		smtpPort:     readSecret("smtp_port"),
		smtpUsername: readSecret("smtp_username"),
		smtpPassword: readSecret("smtp_password"),
		fromEmail:    readSecret("email_from"),
		fromName:     readSecret("email_from_name"),
		adminEmail:   readSecret("admin_email"),
	}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log the email instead
	if s.smtpHost == "" || s.smtpPort == "" {
		fmt.Printf("SMTP not configured, logging email:\n")
		fmt.Printf("To: %s\n", to)
		fmt.Printf("Subject: %s\n", subject)
		fmt.Printf("Body:\n%s\n", body)
		fmt.Printf("--- End Email ---\n")
		return nil
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) SendVerificationEmail(user *models.User, token string) error {
	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", baseURL, token)

	subject := "Verify Your Email - Platefeed"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Please verify your email address by clicking the link below:</p>
<p><a href="%s">Verify email</a></p>
<p>The link expires in 48 hours.</p>`, user.Name, verifyURL)

	return s.SendEmail(user.Email, subject, body)
}

func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	subject := "Welcome to Platefeed!"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome to Platefeed. Share a recipe, follow a few cooks and make yourself at home.</p>`, user.Name)
	return s.SendEmail(user.Email, subject, body)
}

func (s *EmailService) SendReportNotification(report *model.Report) error {
	toEmail := s.adminEmail
	if toEmail == "" {
		toEmail = s.fromEmail
	}

	caser := cases.Title(language.English)
	subject := fmt.Sprintf("[Platefeed] %s reported", caser.String(report.TargetType))

	body := fmt.Sprintf(`<p>A new abuse report was filed.</p>
<ul>
<li>Target: %s %s</li>
<li>Reporter: %s</li>
<li>Reason: %s</li>
</ul>`, report.TargetType, report.TargetID, report.ReporterID, report.Reason)

	return s.SendEmail(toEmail, subject, body)
}
