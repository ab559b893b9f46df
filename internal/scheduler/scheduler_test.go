package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lingua/internal/config"
)

type countingQueue struct {
	calls atomic.Int32
	err   error
}

func (q *countingQueue) EnqueuePurgeExpiredResets() error {
	q.calls.Add(1)
	return q.err
}

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"0 * * * *", false},
		{"*/15 * * * *", false},
		{"0 0 * * 0", false},
		{"", true},
		{"* * *", true},
		{"0 0 * * * *", true}, // seconds field is not accepted
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2024, 3, 10, 14, 25, 0, 0, time.UTC)
	next, err := NextRunTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC), next)

	_, err = NextRunTime("nope", from)
	assert.Error(t, err)
}

func TestCronDescription(t *testing.T) {
	assert.Equal(t, "Every hour at :00", CronDescription("0 * * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", CronDescription("5 4 * * *"))
}

func TestResetPurgeScheduler_Disabled(t *testing.T) {
	s := NewResetPurgeScheduler(&countingQueue{}, config.Scheduler{ResetPurgeEnabled: false, ResetPurgeSchedule: "0 * * * *"})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())
}

func TestResetPurgeScheduler_InvalidSchedule(t *testing.T) {
	s := NewResetPurgeScheduler(&countingQueue{}, config.Scheduler{ResetPurgeEnabled: true, ResetPurgeSchedule: "bad"})

	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestResetPurgeScheduler_StartStop(t *testing.T) {
	s := NewResetPurgeScheduler(&countingQueue{}, config.Scheduler{ResetPurgeEnabled: true, ResetPurgeSchedule: "0 * * * *"})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.NextRun())
	assert.True(t, s.NextRun().After(time.Now()))

	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestResetPurgeScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewResetPurgeScheduler(&countingQueue{}, config.Scheduler{ResetPurgeEnabled: true, ResetPurgeSchedule: "0 * * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestResetPurgeScheduler_RunNow(t *testing.T) {
	q := &countingQueue{}
	s := NewResetPurgeScheduler(q, config.Scheduler{})

	s.RunNow()
	assert.Equal(t, int32(1), q.calls.Load())

	q.err = errors.New("queue closed")
	assert.NotPanics(t, s.RunNow)
	assert.Equal(t, int32(2), q.calls.Load())
}
