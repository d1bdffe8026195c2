package audit

import (
	"log"
	"time"

	"github.com/google/uuid"

	"nbserve/internal/database/audit"
	"nbserve/internal/entities"
)

// Service provides high-level conversion audit logging.
type Service struct {
	repo *audit.Repository
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a conversion event synchronously.
func (s *Service) Log(event *entities.ConversionEvent) error {
	if event.RequestID == "" {
		event.RequestID = uuid.NewString()
	}
	return s.repo.LogEvent(event)
}

// LogAsync records a conversion event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.ConversionEvent) {
	if event.RequestID == "" {
		event.RequestID = uuid.NewString()
	}
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log conversion event: %v", err)
		}
	}()
}

// LogConversion records the outcome of one export request.
func (s *Service) LogConversion(format, path string, source entities.ConversionSource, duration time.Duration, err error) {
	event := &entities.ConversionEvent{
		Format:     format,
		Path:       path,
		Source:     source,
		Status:     entities.ConversionStatusSuccess,
		DurationMS: duration.Milliseconds(),
	}

	if err != nil {
		event.Status = entities.ConversionStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated conversion events.
func (s *Service) GetEvents(limit, offset int) ([]entities.ConversionEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByFormat retrieves conversion events for one export format.
func (s *Service) GetEventsByFormat(format string, limit, offset int) ([]entities.ConversionEvent, int64, error) {
	return s.repo.GetEventsByFormat(format, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
