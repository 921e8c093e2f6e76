package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	texttemplate "text/template"

	"go.uber.org/zap"

	"studioworks/internal/config"
	"studioworks/internal/domain"
)

// EmailService handles sending emails
type EmailService struct {
	cfg  *config.EmailConfig
	site string
	log  *zap.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig, site string, log *zap.Logger) *EmailService {
	return &EmailService{cfg: cfg, site: site, log: log}
}

var contactHTML = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>New {{.Kind}}</title></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #1C5D99;">New {{.Kind}} from {{.Sub.Name}}</h2>
        <div style="background: #F8FAFC; padding: 20px; border-radius: 8px; margin: 20px 0;">
            <p><strong>Name:</strong> {{.Sub.Name}}</p>
            <p><strong>Email:</strong> <a href="mailto:{{.Sub.Email}}">{{.Sub.Email}}</a></p>
            <p><strong>Phone:</strong> {{.Phone}}</p>
            {{if .Sub.Company}}<p><strong>Company:</strong> {{.Sub.Company}}</p>{{end}}
            {{if .Sub.ServiceCategory}}<p><strong>Service:</strong> {{.Sub.ServiceCategory}}</p>{{end}}
            {{if .Sub.BudgetRange}}<p><strong>Budget:</strong> {{.Sub.BudgetRange}}</p>{{end}}
            <p><strong>Submitted:</strong> {{.Submitted}}</p>
        </div>
        <div style="background: #FFFFFF; padding: 20px; border-left: 4px solid #1C5D99; border-radius: 4px; margin: 20px 0;">
            <h3 style="color: #0D1A2D; margin-top: 0;">Message:</h3>
            <p style="white-space: pre-wrap;">{{.Sub.Message}}</p>
        </div>
        <p style="color: #64748B; font-size: 14px;">Submission ID: #{{.Sub.ID}}</p>
    </div>
</body>
</html>`))

var contactText = texttemplate.Must(texttemplate.New("contact").Parse(`New {{.Kind}} from {{.Sub.Name}}

Name: {{.Sub.Name}}
Email: {{.Sub.Email}}
Phone: {{.Phone}}
{{if .Sub.Company}}Company: {{.Sub.Company}}
{{end}}{{if .Sub.ServiceCategory}}Service: {{.Sub.ServiceCategory}}
{{end}}{{if .Sub.BudgetRange}}Budget: {{.Sub.BudgetRange}}
{{end}}Submitted: {{.Submitted}}

Message:
{{.Sub.Message}}

Submission ID: #{{.Sub.ID}}
`))

// headerSafe keeps visitor input from breaking out of a mail header line.
var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

type contactMail struct {
	Kind      string
	Phone     string
	Submitted string
	Sub       *domain.ContactSubmission
}

// ContactNotification renders the subject and bodies of the admin notification for sub.
func (s *EmailService) ContactNotification(sub *domain.ContactSubmission) (subject, htmlBody, textBody string, err error) {
	data := contactMail{
		Kind:      "consultation request",
		Phone:     "Not provided",
		Submitted: sub.CreatedAt.Format("January 2, 2006 at 3:04 PM"),
		Sub:       sub,
	}
	if sub.SubmissionType == domain.SubmissionServiceRequest {
		data.Kind = "service request"
	}
	if sub.Phone != nil && *sub.Phone != "" {
		data.Phone = *sub.Phone
	}

	var html, text bytes.Buffer
	if err := contactHTML.Execute(&html, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render notification: %w", err)
	}
	if err := contactText.Execute(&text, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render notification: %w", err)
	}
	subject = headerSafe.Replace(fmt.Sprintf("[%s] New %s from %s", s.site, data.Kind, sub.Name))
	return subject, html.String(), text.String(), nil
}

// NotifyContact emails the configured inbox about a new submission.
func (s *EmailService) NotifyContact(sub *domain.ContactSubmission) error {
	subject, htmlBody, textBody, err := s.ContactNotification(sub)
	if err != nil {
		return err
	}
	to := s.cfg.NotifyEmail
	if to == "" {
		to = s.cfg.FromEmail
	}
	return s.SendHTMLEmail(to, subject, htmlBody, textBody)
}

// SendHTMLEmail sends an HTML email with plain text fallback
func (s *EmailService) SendHTMLEmail(to, subject, htmlBody, textBody string) error {
	if !s.cfg.Enabled {
		s.log.Info("email disabled, not sending", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}
	if to == "" {
		return fmt.Errorf("no recipient configured")
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	message := buildMessage(from, to, subject, htmlBody, textBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, htmlBody, textBody string) []byte {
	const boundary = "----=_studioworks_alt"

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(textBody + "\r\n")

	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(htmlBody + "\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.Bytes()
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}
