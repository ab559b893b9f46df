package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/config"
)

// PurgeEnqueuer queues one expired-reset purge. *tasks.Client satisfies it.
type PurgeEnqueuer interface {
	EnqueuePurgeExpiredResets() error
}

// ResetPurgeScheduler periodically enqueues the expired reset purge task.
type ResetPurgeScheduler struct {
	queue  PurgeEnqueuer
	config config.Scheduler

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewResetPurgeScheduler(queue PurgeEnqueuer, cfg config.Scheduler) *ResetPurgeScheduler {
	return &ResetPurgeScheduler{
		queue:  queue,
		config: cfg,
		cron:   cron.New(cron.WithParser(parser), cron.WithLogger(cronLogger{})),
	}
}

// Start schedules the purge job. It returns nil without scheduling when the
// purge is disabled.
func (s *ResetPurgeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.ResetPurgeEnabled {
		log.Info("Reset purge scheduler: disabled")
		return nil
	}

	schedule := s.config.ResetPurgeSchedule
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("failed to schedule reset purge: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(schedule, time.Now())
	log.WithFields(log.Fields{
		"schedule": schedule,
		"next_run": nextRun,
	}).Infof("Reset purge scheduler: started (%s)", CronDescription(schedule))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *ResetPurgeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Info("Reset purge scheduler: stopped")
}

// RunNow enqueues a purge immediately.
func (s *ResetPurgeScheduler) RunNow() {
	if err := s.queue.EnqueuePurgeExpiredResets(); err != nil {
		log.WithError(err).Error("Reset purge scheduler: failed to enqueue purge")
		return
	}
	log.Debug("Reset purge scheduler: purge enqueued")
}

// IsRunning returns whether the scheduler is active
func (s *ResetPurgeScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next purge will be enqueued, or nil when stopped.
func (s *ResetPurgeScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(kvFields(keysAndValues)).Debug("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithError(err).WithFields(kvFields(keysAndValues)).Error("cron: " + msg)
}

func kvFields(kv []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
