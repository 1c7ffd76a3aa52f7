package services

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"
	"sync"
	"time"
)

// EmailSender delivers one HTML email.
type EmailSender interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

type MailerConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailerConfig
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

// NewEmailSender returns the SMTP mailer, or a LogMailer when no host is
// configured.
func NewEmailSender(cfg MailerConfig) EmailSender {
	if strings.TrimSpace(cfg.Host) == "" {
		log.Println("Mailer: EMAIL_HOST not set, emails are written to the log")
		return &LogMailer{}
	}
	return NewMailer(cfg)
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := [][2]string{
		{"From", m.config.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}

	var msg strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], h[1])
	}
	msg.WriteString("\r\n" + htmlBody)

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg.String()))
	if err != nil {
		log.Printf("Mailer.SendHTMLEmail: Failed to send email to %s: %v", to, err)
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// SentEmail is one message captured by LogMailer.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// LogMailer logs emails instead of sending them and keeps them for
// inspection.
type LogMailer struct {
	mu   sync.Mutex
	sent []SentEmail
}

func (l *LogMailer) SendHTMLEmail(to, subject, htmlBody string) error {
	l.mu.Lock()
	l.sent = append(l.sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	l.mu.Unlock()
	log.Printf("Mailer: email to %s: %s", to, subject)
	return nil
}

func (l *LogMailer) Sent() []SentEmail {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SentEmail(nil), l.sent...)
}

const emailLayout = `
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>%[1]s</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .header { background-color: #f8f8f8; padding: 10px 0; text-align: center; border-bottom: 1px solid #ddd; }
                .content { padding: 20px; text-align: center; }
                .button { display: inline-block; margin: 20px 0; padding: 12px 24px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 5px; }
                .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
            </style>
        </head>
        <body>
            <div class="container">
                <div class="header">
                    <h2>%[1]s</h2>
                </div>
                <div class="content">
                    %[2]s
                </div>
                <div class="footer">
                    <p>&copy; %[3]d %[4]s</p>
                </div>
            </div>
        </body>
        </html>
    `

func renderEmail(appName, title, content string) string {
	return fmt.Sprintf(emailLayout, html.EscapeString(title), content, time.Now().Year(), html.EscapeString(appName))
}

func BuildVerificationEmailBody(appName, name, link string, expiry time.Duration) string {
	content := fmt.Sprintf(`
                    <p>Hi %s,</p>
                    <p>Confirm your email address to finish setting up your supplier account.</p>
                    <a class="button" href="%s">Verify email</a>
                    <p>This link expires in %d hours.</p>
                    <p>If you did not sign up, you can ignore this email.</p>`,
		html.EscapeString(name), html.EscapeString(link), int(expiry.Hours()))
	return renderEmail(appName, "Verify your email", content)
}

func BuildPasswordResetEmailBody(appName, name, link string, expiry time.Duration) string {
	content := fmt.Sprintf(`
                    <p>Hi %s,</p>
                    <p>We received a request to reset the password of your account.</p>
                    <a class="button" href="%s">Choose a new password</a>
                    <p>This link expires in %d minutes.</p>
                    <p>If you did not ask for a reset, you can ignore this email.</p>`,
		html.EscapeString(name), html.EscapeString(link), int(expiry.Minutes()))
	return renderEmail(appName, "Reset your password", content)
}
