package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ConversionEventCleaner provides the ability to delete old conversion events.
type ConversionEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupConversionEventsTask removes conversion events older than the
// configured retention period.
type CleanupConversionEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for conversion event cleanup tasks.
func (t CleanupConversionEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_conversion_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupConversionEventsProcessor creates a processor function for CleanupConversionEventsTask.
func CleanupConversionEventsProcessor(cleaner ConversionEventCleaner) backlite.QueueProcessor[CleanupConversionEventsTask] {
	return func(ctx context.Context, task CleanupConversionEventsTask) error {
		if cleaner == nil {
			return fmt.Errorf("conversion event cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldEvents(retention)
		if err != nil {
			return fmt.Errorf("cleanup conversion events: %w", err)
		}

		log.Printf("[tasks] removed %d conversion events older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupConversionEventsQueue creates a backlite queue for cleanup tasks.
func NewCleanupConversionEventsQueue(cleaner ConversionEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupConversionEventsProcessor(cleaner))
}
