package audit

import (
	"time"

	"gorm.io/gorm"

	"nbserve/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves a conversion event to the database.
func (r *Repository) LogEvent(event *entities.ConversionEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated conversion events, ordered by most recent first.
func (r *Repository) GetEvents(limit, offset int) ([]entities.ConversionEvent, int64, error) {
	var events []entities.ConversionEvent
	var total int64

	query := r.db.Model(&entities.ConversionEvent{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// GetEventsByFormat retrieves conversion events for a single export format.
func (r *Repository) GetEventsByFormat(format string, limit, offset int) ([]entities.ConversionEvent, int64, error) {
	var events []entities.ConversionEvent
	var total int64

	query := r.db.Model(&entities.ConversionEvent{}).Where("format = ?", format)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes conversion events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.ConversionEvent{})
	return result.RowsAffected, result.Error
}
