// Package auth implements HTTP handlers for account registration, password
// login, and the current-user endpoint. Tokens are signed JWTs; see
// internal/auth for signing and verification.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/auth"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/config"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
)

// Handlers handles authentication endpoints
type Handlers struct {
	cfg      *config.Config
	userRepo *repositories.UserRepository
}

// NewHandlers creates a new auth Handlers instance
func NewHandlers(cfg *config.Config, userRepo *repositories.UserRepository) *Handlers {
	return &Handlers{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// RegisterRequest is the body for POST /api/v1/auth/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body for POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userResponse is the public shape of a user. The password hash never
// leaves this package.
func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"role":       user.Role,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}
}

// @Summary      Register a new account
// @Description  Create a user account with email and password, returning a signed JWT
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body  RegisterRequest  true  "Registration details"
// @Success      201  {object}  map[string]interface{}  "Created user and JWT token"
// @Failure      400  {object}  map[string]interface{}  "Invalid request body"
// @Failure      409  {object}  map[string]interface{}  "Email already registered"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/auth/register [post]
// RegisterHandler creates a new user account
// POST /api/v1/auth/register
func (h *Handlers) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: email, name, and a password of at least 8 characters are required",
			})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		existing, err := h.userRepo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check existing accounts",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An account with this email already exists",
			})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to process password",
			})
			return
		}

		user := &models.User{
			Email:        email,
			Name:         req.Name,
			PasswordHash: hash,
			Role:         models.RoleUser,
		}
		if err := h.userRepo.CreateUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create account",
			})
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Role, h.cfg.Auth.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to generate authentication token",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"token": token,
			"user":  userResponse(user),
		})
	}
}

// @Summary      Log in with email and password
// @Description  Verify credentials and return a signed JWT
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body  LoginRequest  true  "Login credentials"
// @Success      200  {object}  map[string]interface{}  "JWT token and user information"
// @Failure      400  {object}  map[string]interface{}  "Invalid request body"
// @Failure      401  {object}  map[string]interface{}  "Invalid email or password"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/auth/login [post]
// LoginHandler verifies credentials and issues a JWT
// POST /api/v1/auth/login
func (h *Handlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: email and password are required",
			})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		user, err := h.userRepo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to look up account",
			})
			return
		}

		// Unknown email and wrong password produce the same response so the
		// login endpoint cannot be used to probe which emails are registered.
		if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Role, h.cfg.Auth.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to generate authentication token",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  userResponse(user),
		})
	}
}

// @Summary      Get current user
// @Description  Return the account information of the authenticated user
// @Tags         Authentication
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Current user information"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/auth/me [get]
// MeHandler returns the authenticated user's account details
// GET /api/v1/auth/me
func (h *Handlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if exists {
			if user, ok := userVal.(*models.User); ok {
				c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
				return
			}
		}

		// API key auth paths may not have loaded the full user; fall back to
		// the user_id set by the middleware.
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
			})
			return
		}

		userID, ok := userIDVal.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid user ID format",
			})
			return
		}

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get user information",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
	}
}
