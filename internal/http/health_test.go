package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbserve/internal/contents"
)

// stubManager reports a fixed storage state without touching the filesystem.
type stubManager struct {
	err error
}

func (m *stubManager) Get(string) (*contents.Model, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &contents.Model{Type: contents.TypeDirectory}, nil
}

func (m *stubManager) OSPath(string) (string, bool) {
	return "/", true
}

func newHealthRouter(manager contents.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthController(nil, manager, "test").Status)
	return router
}

func TestHealthStatus(t *testing.T) {
	t.Run("reports healthy when storage is reachable", func(t *testing.T) {
		router := newHealthRouter(&stubManager{})
		w := doRequest(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "test", resp.Version)
		assert.Equal(t, "ok", resp.Checks["storage"])
		assert.Equal(t, "not configured", resp.Checks["database"])
	})

	t.Run("reports unhealthy when storage fails", func(t *testing.T) {
		router := newHealthRouter(&stubManager{err: errors.New("root vanished")})
		w := doRequest(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Contains(t, resp.Checks["storage"], "root vanished")
	})
}
