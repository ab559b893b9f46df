// Package mailer renders and delivers account emails.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"net/url"
	"text/template"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/config"
)

//go:embed templates/*.txt
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

const passwordResetSubject = "Reset your Lingua password"

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer turns account events into messages.
type Mailer struct {
	sender      Sender
	frontendURL string
	resetTTL    time.Duration
}

func New(sender Sender, frontendURL string, resetTTL time.Duration) *Mailer {
	return &Mailer{sender: sender, frontendURL: frontendURL, resetTTL: resetTTL}
}

// NewFromConfig picks the SMTP sender when a host is configured and the
// logging sender otherwise.
func NewFromConfig(cfg config.Mail, resetTTL time.Duration) (*Mailer, error) {
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST not set, emails will be logged instead of sent")
		return New(LogSender{}, cfg.FrontendURL, resetTTL), nil
	}

	sender, err := NewSMTPSender(cfg)
	if err != nil {
		return nil, err
	}
	return New(sender, cfg.FrontendURL, resetTTL), nil
}

// ResetLink builds the frontend URL that consumes token.
func (m *Mailer) ResetLink(token string) string {
	return m.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

// SendPasswordReset emails the reset link for token to email.
func (m *Mailer) SendPasswordReset(ctx context.Context, email, token string) error {
	var body bytes.Buffer
	err := templates.ExecuteTemplate(&body, "password_reset.txt", struct {
		Email     string
		Link      string
		ExpiresIn string
	}{
		Email:     email,
		Link:      m.ResetLink(token),
		ExpiresIn: formatTTL(m.resetTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to render password reset email: %w", err)
	}

	return m.sender.Send(ctx, Message{
		To:      email,
		Subject: passwordResetSubject,
		Body:    body.String(),
	})
}

func formatTTL(d time.Duration) string {
	if d <= 0 {
		return "a short while"
	}
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hour(s)", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}
