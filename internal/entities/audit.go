package entities

import "time"

type ConversionSource string

const (
	ConversionSourcePath ConversionSource = "path" // Notebook loaded from storage
	ConversionSourceBody ConversionSource = "body" // Notebook supplied in the request body
)

type ConversionStatus string

const (
	ConversionStatusSuccess ConversionStatus = "success"
	ConversionStatusFailed  ConversionStatus = "failed"
)

// ConversionEvent records a single export request, successful or not.
type ConversionEvent struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	RequestID  string           `gorm:"size:36;index" json:"request_id"`
	Format     string           `gorm:"size:50;index" json:"format"`
	Path       string           `gorm:"size:500" json:"path,omitempty"`
	Source     ConversionSource `gorm:"size:10" json:"source"`
	Status     ConversionStatus `gorm:"size:20" json:"status"`
	ErrorMsg   string           `gorm:"size:500" json:"error_msg,omitempty"`
	DurationMS int64            `json:"duration_ms"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`
}

func (ConversionEvent) TableName() string {
	return "conversion_events"
}
