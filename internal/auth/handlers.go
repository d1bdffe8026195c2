package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginController serves the login and logout endpoints backed by sessions.
type LoginController struct {
	service        *Service
	sessionManager *SessionManager
}

func NewLoginController(service *Service, sessionManager *SessionManager) *LoginController {
	return &LoginController{
		service:        service,
		sessionManager: sessionManager,
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login verifies the password (or token) and establishes a session.
func (ctrl *LoginController) Login(c *gin.Context) {
	if !ctrl.service.Enabled() {
		c.JSON(http.StatusOK, gin.H{"authenticated": true})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if err := ctrl.service.Authenticate(req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if ctrl.sessionManager != nil {
		if err := ctrl.sessionManager.CreateSession(c.Request); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// Logout invalidates the current session.
func (ctrl *LoginController) Logout(c *gin.Context) {
	if ctrl.sessionManager != nil {
		if err := ctrl.sessionManager.DestroySession(c.Request); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to destroy session"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}
