package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"
)

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// SendPasswordResetEmailTask delivers one reset link. The plaintext token
// only lives in the task row until the task is cleaned up.
type SendPasswordResetEmailTask struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Config returns the queue configuration for reset email tasks.
func (t SendPasswordResetEmailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_password_reset_email",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
		},
	}
}

// SendPasswordResetEmailProcessor creates a processor function for SendPasswordResetEmailTask.
func SendPasswordResetEmailProcessor(mailer ResetMailer) backlite.QueueProcessor[SendPasswordResetEmailTask] {
	return func(ctx context.Context, task SendPasswordResetEmailTask) error {
		if mailer == nil {
			return fmt.Errorf("reset mailer not configured")
		}
		if err := mailer.SendPasswordReset(ctx, task.Email, task.Token); err != nil {
			return fmt.Errorf("send password reset email: %w", err)
		}
		log.WithField("email", task.Email).Info("Password reset email sent")
		return nil
	}
}

// NewSendPasswordResetEmailQueue creates a backlite queue for reset emails.
func NewSendPasswordResetEmailQueue(mailer ResetMailer) backlite.Queue {
	return backlite.NewQueue(SendPasswordResetEmailProcessor(mailer))
}
