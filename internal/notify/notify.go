// Package notify renders and sends transactional emails.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"
)

// EmailProvider delivers a message. Retries and bounces are the provider's concern.
type EmailProvider interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// LogProvider writes messages to the log instead of delivering them.
// It is the default when no mail gateway is configured.
type LogProvider struct {
	log  logrus.FieldLogger
	from string
}

func NewLogProvider(log logrus.FieldLogger, from string) *LogProvider {
	return &LogProvider{log: log, from: from}
}

func (p *LogProvider) Send(ctx context.Context, recipients []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}
	p.log.WithFields(logrus.Fields{
		"from":       p.from,
		"recipients": recipients,
		"subject":    subject,
		"body_bytes": len(body),
	}).Info("email dispatched")
	return nil
}

// Template names.
const (
	TemplateEmailConfirmation        = "email_confirmation.tmpl"
	TemplatePasswordReset            = "password_reset.tmpl"
	TemplateExerciseDeleted          = "exercise_deleted.tmpl"
	TemplateCoachApplicationApproved = "coach_application_approved.tmpl"
	TemplateCoachApplicationDenied   = "coach_application_denied.tmpl"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Render executes the named template with data.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Template data.
type (
	LinkData struct {
		FirstName string
		Link      string
	}

	PasswordResetData struct {
		FirstName string
		Link      string
		ExpiresAt time.Time
	}

	ExerciseDeletedData struct {
		Subject  string
		Workouts []string
	}

	CoachApplicationData struct {
		FirstName string
		Remarks   string
	}
)
