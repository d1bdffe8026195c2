package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"nbserve/internal/config"
)

func newMiddlewareRouter(cfg config.Auth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewMiddleware(NewService(cfg), nil).Handler())
	router.GET("/api/formats", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return router
}

func TestMiddlewareDisabled(t *testing.T) {
	router := newMiddlewareRouter(config.Auth{Mode: config.AuthModeNone})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareTokenAuth(t *testing.T) {
	cfg := config.Auth{Mode: config.AuthModeToken, Token: "s3cret"}

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		router := newMiddlewareRouter(cfg)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/formats", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authentication required")
	})

	t.Run("accepts token scheme header", func(t *testing.T) {
		router := newMiddlewareRouter(cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
		req.Header.Set("Authorization", "token s3cret")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts bearer scheme header", func(t *testing.T) {
		router := newMiddlewareRouter(cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts token query parameter", func(t *testing.T) {
		router := newMiddlewareRouter(cfg)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/formats?token=s3cret", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		router := newMiddlewareRouter(cfg)
		req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
		req.Header.Set("Authorization", "token nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("public paths skip authentication", func(t *testing.T) {
		router := newMiddlewareRouter(cfg)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", tokenFromHeader("token abc"))
	assert.Equal(t, "abc", tokenFromHeader("Bearer abc"))
	assert.Empty(t, tokenFromHeader("Basic abc"))
	assert.Empty(t, tokenFromHeader("token"))
	assert.Empty(t, tokenFromHeader(""))
}
