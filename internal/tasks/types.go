package tasks

import "time"

// Task Types
const (
	TaskTypeLedgerSnapshot = "ledger:snapshot"
	TaskTypeLedgerExport   = "ledger:export"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive work
	QueueDefault  = "default"  // For regular tasks
	QueueLow      = "low"      // For background work like report exports
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
	TimeoutLong   = 30 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
	RetryMin     = 1
)

// SnapshotPayload drives the ledger snapshot task. An empty BaseID means
// every base.
type SnapshotPayload struct {
	BaseID string `json:"base_id,omitempty"`
}

// ExportPayload drives the report export task.
type ExportPayload struct {
	BaseID string    `json:"base_id"`
	AsOf   time.Time `json:"as_of"`
}
