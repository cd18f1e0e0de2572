package tasks

import (
	"encoding/json"
	"fmt"

	"garrison/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// Scheduler handles periodic task scheduling
type Scheduler struct {
	scheduler    *asynq.Scheduler
	logger       *logger.Logger
	snapshotSpec string
}

// NewScheduler creates a new task scheduler. snapshotSpec is the cron
// expression for the periodic full ledger snapshot.
func NewScheduler(redisAddr, username, password string, db int, snapshotSpec string, logger *logger.Logger) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		&asynq.SchedulerOpts{},
	)

	return &Scheduler{
		scheduler:    scheduler,
		logger:       logger,
		snapshotSpec: snapshotSpec,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers all periodic tasks
func (s *Scheduler) registerTasks() error {
	// Validate the spec before handing it to asynq so a bad expression
	// fails at startup rather than silently never firing.
	if _, err := cron.ParseStandard(s.snapshotSpec); err != nil {
		return fmt.Errorf("invalid snapshot cron spec %q: %w", s.snapshotSpec, err)
	}

	payload, err := json.Marshal(SnapshotPayload{})
	if err != nil {
		return err
	}

	entryID, err := s.scheduler.Register(
		s.snapshotSpec,
		asynq.NewTask(TaskTypeLedgerSnapshot, payload),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutLong),
	)
	if err != nil {
		return fmt.Errorf("failed to register snapshot task: %w", err)
	}

	s.logger.Info("registered %s spec=%q entry=%s", TaskTypeLedgerSnapshot, s.snapshotSpec, entryID)
	return nil
}
