package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nbserve/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ConversionEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	event := &entities.ConversionEvent{
		RequestID: "4d2c9f3a-0000-0000-0000-000000000000",
		Format:    "html",
		Path:      "reports/q3.ipynb",
		Source:    entities.ConversionSourcePath,
		Status:    entities.ConversionStatusSuccess,
	}

	err := repo.LogEvent(event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	for i := 0; i < 15; i++ {
		event := &entities.ConversionEvent{
			Format:    "markdown",
			Source:    entities.ConversionSourceBody,
			Status:    entities.ConversionStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(event))
	}

	t.Run("get all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)

		events2, _, err := repo.GetEvents(5, 5)
		require.NoError(t, err)
		assert.Len(t, events2, 5)
		assert.NotEqual(t, events[0].ID, events2[0].ID)
	})

	t.Run("order by created_at desc", func(t *testing.T) {
		events, _, err := repo.GetEvents(10, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.True(t, events[i-1].CreatedAt.After(events[i].CreatedAt) || events[i-1].CreatedAt.Equal(events[i].CreatedAt))
		}
	})
}

func TestRepository_GetEventsByFormat(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.LogEvent(&entities.ConversionEvent{
		Format: "html", Source: entities.ConversionSourcePath, Status: entities.ConversionStatusSuccess,
	}))
	require.NoError(t, repo.LogEvent(&entities.ConversionEvent{
		Format: "latex", Source: entities.ConversionSourcePath, Status: entities.ConversionStatusFailed,
	}))
	require.NoError(t, repo.LogEvent(&entities.ConversionEvent{
		Format: "html", Source: entities.ConversionSourceBody, Status: entities.ConversionStatusSuccess,
	}))

	events, total, err := repo.GetEventsByFormat("html", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, "html", e.Format)
	}
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now()

	oldEvent := &entities.ConversionEvent{
		Format:    "html",
		Source:    entities.ConversionSourcePath,
		Status:    entities.ConversionStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}
	newEvent := &entities.ConversionEvent{
		Format:    "markdown",
		Source:    entities.ConversionSourceBody,
		Status:    entities.ConversionStatusSuccess,
		CreatedAt: now.Add(-1 * time.Hour),
	}

	require.NoError(t, repo.LogEvent(oldEvent))
	require.NoError(t, repo.LogEvent(newEvent))

	deleted, err := repo.DeleteOldEvents(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents(50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, "markdown", events[0].Format)
}
