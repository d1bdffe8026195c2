package audit

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditrepo "nbserve/internal/database/audit"
	"nbserve/internal/entities"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ConversionEvent{}))
	return NewService(auditrepo.NewRepository(db))
}

func waitForEvents(t *testing.T, s *Service, want int) []entities.ConversionEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, total, err := s.GetEvents(50, 0)
		require.NoError(t, err)
		if total >= int64(want) {
			return events
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events", want)
	return nil
}

func TestService_Log(t *testing.T) {
	s := newTestService(t)

	event := &entities.ConversionEvent{
		Format: "html",
		Source: entities.ConversionSourcePath,
		Status: entities.ConversionStatusSuccess,
	}
	require.NoError(t, s.Log(event))
	assert.NotEmpty(t, event.RequestID, "request ID should be assigned")
}

func TestService_LogConversion(t *testing.T) {
	t.Run("successful conversion", func(t *testing.T) {
		s := newTestService(t)
		s.LogConversion("markdown", "reports/q3.ipynb", entities.ConversionSourcePath, 42*time.Millisecond, nil)

		events := waitForEvents(t, s, 1)
		require.Len(t, events, 1)
		assert.Equal(t, entities.ConversionStatusSuccess, events[0].Status)
		assert.Equal(t, "markdown", events[0].Format)
		assert.Equal(t, int64(42), events[0].DurationMS)
		assert.NotEmpty(t, events[0].RequestID)
	})

	t.Run("failed conversion records truncated error", func(t *testing.T) {
		s := newTestService(t)
		s.LogConversion("latex", "", entities.ConversionSourceBody, 0, errors.New(strings.Repeat("x", 600)))

		events := waitForEvents(t, s, 1)
		require.Len(t, events, 1)
		assert.Equal(t, entities.ConversionStatusFailed, events[0].Status)
		assert.Len(t, events[0].ErrorMsg, 500)
		assert.True(t, strings.HasSuffix(events[0].ErrorMsg, "..."))
	})
}

func TestService_DeleteOldEvents(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.Log(&entities.ConversionEvent{
		Format:    "html",
		Source:    entities.ConversionSourcePath,
		Status:    entities.ConversionStatusSuccess,
		CreatedAt: time.Now().Add(-72 * time.Hour),
	}))
	require.NoError(t, s.Log(&entities.ConversionEvent{
		Format: "html",
		Source: entities.ConversionSourcePath,
		Status: entities.ConversionStatusSuccess,
	}))

	deleted, err := s.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := s.GetEvents(50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
