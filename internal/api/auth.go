package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"time"     // Token lifetime

	"gamevault/internal/store"
	"gamevault/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// RegisterRequest is the signup body
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"` // Login identity
	Username    string `json:"username" binding:"required"`    // Unique handle
	DisplayName string `json:"display_name"`                   // Optional, defaults to username
	Password    string `json:"password" binding:"required"`    // Plain text, hashed before storage
}

// LoginRequest is the credential body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// isValidUsername allows letters, digits and underscores, 3 to 32 characters
func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// isValidPassword checks if the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64
}

// RegisterHandler creates an account with an empty wallet
func RegisterHandler(users *store.UserStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-32 letters, digits or underscores"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-64 characters"})
			return
		}
		if req.DisplayName == "" {
			req.DisplayName = req.Username
		}
		user, err := users.Register(c.Request.Context(), req.Email, req.Username, req.DisplayName, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := utils.InvalidateAccounts(c.Request.Context(), rdb); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate account listings")
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User registered")
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *store.UserStore, jwtSecret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret, ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
