package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for auth data
const (
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates how the request was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeToken   AuthType = "token"
	AuthTypeSession AuthType = "session"
)

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	publicPaths := map[string]bool{
		"/health": true,
		"/ping":   true,
		"/login":  true,
	}

	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		publicPaths:    publicPaths,
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	if !m.service.Enabled() {
		return m.noAuthHandler()
	}

	return m.authHandler()
}

func (m *Middleware) noAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyAuthType, AuthTypeNone)
		c.Next()
	}
}

func (m *Middleware) authHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
			return
		}

		if m.tryTokenAuth(c) {
			c.Set(ContextKeyAuthType, AuthTypeToken)
			c.Next()
			return
		}

		if m.trySessionAuth(c) {
			c.Set(ContextKeyAuthType, AuthTypeSession)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
		})
	}
}

// tryTokenAuth accepts the access token from an Authorization header using
// the "token" or "bearer" scheme, or from a token query parameter.
func (m *Middleware) tryTokenAuth(c *gin.Context) bool {
	if token := tokenFromHeader(c.GetHeader("Authorization")); token != "" {
		return m.service.ValidateToken(token) == nil
	}

	if token := c.Query("token"); token != "" {
		return m.service.ValidateToken(token) == nil
	}

	return false
}

func (m *Middleware) trySessionAuth(c *gin.Context) bool {
	if m.sessionManager == nil {
		return false
	}
	return m.sessionManager.IsAuthenticated(c.Request)
}

func tokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "token") && !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}
