package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raidroad/roadwatch/internal/service"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// Login handles POST /api/auth/login: plain username login, creating the
// user on first sight.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	// 1. Parse JSON request
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	// 2. Call service
	user, token, err := h.authService.Login(req.Username)
	if err != nil {
		logger.Log.Warn("Login failed",
			zap.String("username", req.Username),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// 3. Set token in HTTP-only cookie with security flags
	h.setSessionCookie(c, token)

	// 4. Return the user (token travels only in the cookie)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"username":    user.Username,
			"trust_level": user.TrustLevel,
		},
	})
}

// TelegramLogin handles POST /api/auth/telegram with the fields the Telegram
// Login Widget posts (id, username, auth_date, hash, ...).
func (h *AuthHandler) TelegramLogin(c *gin.Context) {
	var fields map[string]string

	// 1. Parse widget payload
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	// 2. Verify signature and log in
	user, token, err := h.authService.VerifyTelegramLogin(fields)
	if err != nil {
		statusCode := http.StatusUnauthorized
		if errors.Is(err, service.ErrInvalidUsername) {
			statusCode = http.StatusBadRequest
		}

		logger.Log.Warn("Telegram login failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	// 3. Set token in HTTP-only cookie
	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"username":    user.Username,
			"trust_level": user.TrustLevel,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	isProduction := h.authService.IsProduction()

	c.SetSameSite(http.SameSiteLaxMode) // CSRF protection
	c.SetCookie(
		"token",      // name
		token,        // value
		7*24*60*60,   // maxAge (7 days in seconds)
		"/",          // path
		"",           // domain (empty = current domain)
		isProduction, // secure (HTTPS-only in production)
		true,         // httpOnly (JavaScript cannot access)
	)
}
