package tasks

import (
	"context"
	"fmt"
)

// ResetDispatcher hands reset emails to the queue instead of sending them
// inside the request.
type ResetDispatcher struct {
	client *Client
}

func NewResetDispatcher(client *Client) *ResetDispatcher {
	return &ResetDispatcher{client: client}
}

// SendPasswordReset enqueues the email and returns once it is stored.
func (d *ResetDispatcher) SendPasswordReset(_ context.Context, email, token string) error {
	if _, err := d.client.Enqueue(SendPasswordResetEmailTask{Email: email, Token: token}); err != nil {
		return fmt.Errorf("enqueue password reset email: %w", err)
	}
	return nil
}

// EnqueuePurgeExpiredResets schedules one purge run.
func (c *Client) EnqueuePurgeExpiredResets() error {
	if _, err := c.Enqueue(PurgeExpiredResetsTask{}); err != nil {
		return fmt.Errorf("enqueue reset purge: %w", err)
	}
	return nil
}
