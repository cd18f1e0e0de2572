package tasks

import (
	"encoding/json"
	"fmt"

	"garrison/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing
type TaskClient struct {
	client      *asynq.Client
	logger      *logger.Logger
	redisClient *redis.Client
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

func (c *TaskClient) GetRedis() *redis.Client {
	return c.redisClient
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueueSnapshot queues a ledger snapshot run for one base, or every base
// when baseID is empty.
func (c *TaskClient) EnqueueSnapshot(baseID string, opts ...asynq.Option) error {
	payload, err := json.Marshal(SnapshotPayload{BaseID: baseID})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	opts = append([]asynq.Option{
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutMedium),
	}, opts...)

	info, err := c.client.Enqueue(asynq.NewTask(TaskTypeLedgerSnapshot, payload), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue snapshot task: %w", err)
	}

	c.logger.Info("enqueued %s id=%s queue=%s", TaskTypeLedgerSnapshot, info.ID, info.Queue)
	return nil
}

// EnqueueExport queues a report export for one base.
func (c *TaskClient) EnqueueExport(payload ExportPayload, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal export payload: %w", err)
	}

	opts = append([]asynq.Option{
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryMin),
		asynq.Timeout(TimeoutLong),
	}, opts...)

	info, err := c.client.Enqueue(asynq.NewTask(TaskTypeLedgerExport, data), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue export task: %w", err)
	}

	c.logger.Info("enqueued %s id=%s queue=%s", TaskTypeLedgerExport, info.ID, info.Queue)
	return nil
}
