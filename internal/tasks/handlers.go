package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"garrison/internal/events"
	"garrison/internal/models"
	"garrison/internal/services"
	"garrison/internal/tasks/rate"
	"garrison/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskHandler processes background tasks
type TaskHandler struct {
	db         *gorm.DB
	logger     *logger.Logger
	taskClient *TaskClient
	ledger     *services.LedgerService
	reports    *services.ReportStore
	limiter    *rate.QueueRateLimiter
}

// NewTaskHandler creates a new TaskHandler. reports may be nil when no
// object storage is configured; exports are then skipped.
func NewTaskHandler(db *gorm.DB, taskClient *TaskClient, reports *services.ReportStore) *TaskHandler {
	h := &TaskHandler{
		db:         db,
		logger:     logger.New("task_handler"),
		taskClient: taskClient,
		ledger:     services.NewLedgerService(db),
		reports:    reports,
	}

	if taskClient != nil {
		h.limiter = rate.NewQueueRateLimiter(taskClient.GetRedis(), rate.QueueConfig{
			Name: QueueLow,
			RateLimit: rate.RateLimit{
				Window:  time.Hour,
				MaxJobs: 30,
			},
		})
	}

	return h
}

// RegisterEventHandlers subscribes to movement events so a fresh snapshot
// follows every confirmed mutation without waiting for the nightly run.
func (h *TaskHandler) RegisterEventHandlers() {
	events.On("purchases.created", func(data interface{}) {
		if p, ok := data.(*models.Purchase); ok {
			_ = h.taskClient.EnqueueSnapshot(p.BaseID)
		}
	})
	events.On("transfers.created", func(data interface{}) {
		if t, ok := data.(*models.Transfer); ok {
			_ = h.taskClient.EnqueueSnapshot(t.FromBaseID)
			_ = h.taskClient.EnqueueSnapshot(t.ToBaseID)
		}
	})
	events.On("assignments.created", func(data interface{}) {
		if a, ok := data.(*models.Assignment); ok {
			_ = h.taskClient.EnqueueSnapshot(a.BaseID)
		}
	})
}

// HandleLedgerSnapshot computes and persists a movement summary for the
// named base, or for every base when the payload names none, then queues a
// report export per snapshot.
func (h *TaskHandler) HandleLedgerSnapshot(ctx context.Context, t *asynq.Task) error {
	var payload SnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}

	var bases []models.Base
	query := h.db.WithContext(ctx).Where("is_deleted = ?", false)
	if payload.BaseID != "" {
		query = query.Where("id = ?", payload.BaseID)
	}
	if err := query.Find(&bases).Error; err != nil {
		return fmt.Errorf("failed to load bases: %w", err)
	}

	asOf := time.Now().UTC()
	for _, base := range bases {
		summary, err := h.ledger.Summarize(ctx, services.LedgerScope{BaseID: base.ID})
		if err != nil {
			return fmt.Errorf("failed to summarize base %s: %w", base.ID, err)
		}

		figures, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}

		snapshot := models.LedgerSnapshot{
			BaseID:  base.ID,
			AsOf:    asOf,
			Figures: figures,
		}
		if err := h.db.WithContext(ctx).Create(&snapshot).Error; err != nil {
			return fmt.Errorf("failed to persist snapshot for base %s: %w", base.ID, err)
		}

		h.logger.Info("snapshot stored base=%s closing=%d", base.ID, summary.ClosingBalance)

		if h.reports != nil {
			if err := h.taskClient.EnqueueExport(ExportPayload{BaseID: base.ID, AsOf: asOf}); err != nil {
				h.logger.Warn("failed to enqueue export for base %s: %v", base.ID, err)
			}
		}
	}

	return nil
}

// HandleLedgerExport renders the movement report for a base and uploads it
// to object storage. Exports are rate limited per base.
func (h *TaskHandler) HandleLedgerExport(ctx context.Context, t *asynq.Task) error {
	if h.reports == nil {
		h.logger.Warn("report store not configured, dropping export task")
		return nil
	}

	var payload ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal export payload: %w", err)
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, payload.BaseID)
		if err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		if !allowed {
			h.logger.Warn("export rate limit hit for base %s, retrying later", payload.BaseID)
			return fmt.Errorf("export rate limit exceeded for base %s", payload.BaseID)
		}
	}

	report, err := h.ledger.BuildMovementReport(ctx, payload.BaseID)
	if err != nil {
		return fmt.Errorf("failed to build report for base %s: %w", payload.BaseID, err)
	}

	key, err := h.reports.UploadReport(ctx, payload.BaseID, payload.AsOf, report)
	if err != nil {
		return fmt.Errorf("failed to upload report for base %s: %w", payload.BaseID, err)
	}

	h.logger.Success("exported report %s", key)
	return nil
}
