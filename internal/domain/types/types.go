// Package types contains common types used across the application
package types

import (
	"github.com/okian/gachastat/internal/domain/model"
)

// RunReport summarizes one history synchronization.
type RunReport struct {
	RunID      string `json:"run_id"`
	Pages      int    `json:"pages"`
	TotalPages int    `json:"total_pages"`
	Batches    int    `json:"batches"`
	Duplicates int    `json:"duplicates"`
	Events     int    `json:"events"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// StatisticsRequest is the body of a statistics computation over caller
// supplied events.
type StatisticsRequest struct {
	Gacha []model.DrawEvent `json:"gacha"`
	Pool  *string           `json:"pool,omitempty"`
}

// ServiceStats reports the service state for monitoring.
type ServiceStats struct {
	LoggedIn      bool       `json:"logged_in"`
	StoredBatches int        `json:"stored_batches"`
	QueueCapacity int        `json:"queue_capacity"`
	LastRun       *RunReport `json:"last_run,omitempty"`
}
