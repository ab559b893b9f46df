package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"
)

// ResetPurger deletes password resets that expired before now.
type ResetPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// PurgeExpiredResetsTask removes expired password reset tokens.
type PurgeExpiredResetsTask struct{}

// Config returns the queue configuration for reset purge tasks.
func (t PurgeExpiredResetsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_expired_resets",
		MaxAttempts: 1,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeExpiredResetsProcessor creates a processor function for PurgeExpiredResetsTask.
func PurgeExpiredResetsProcessor(purger ResetPurger) backlite.QueueProcessor[PurgeExpiredResetsTask] {
	return func(ctx context.Context, _ PurgeExpiredResetsTask) error {
		if purger == nil {
			return fmt.Errorf("reset store not configured")
		}

		deleted, err := purger.PurgeExpired(ctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("purge expired resets: %w", err)
		}

		log.WithField("deleted", deleted).Info("Purged expired password resets")
		return nil
	}
}

// NewPurgeExpiredResetsQueue creates a backlite queue for reset purges.
func NewPurgeExpiredResetsQueue(purger ResetPurger) backlite.Queue {
	return backlite.NewQueue(PurgeExpiredResetsProcessor(purger))
}
