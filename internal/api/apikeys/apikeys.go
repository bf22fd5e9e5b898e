// Package apikeys implements HTTP handlers for managing a user's API keys.
// The raw key is returned exactly once, at creation; only a bcrypt hash and a
// short display prefix are stored.
package apikeys

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/auth"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
)

// Handlers handles API key management endpoints
type Handlers struct {
	apiKeyRepo *repositories.APIKeyRepository
}

// NewHandlers creates a new apikeys Handlers instance
func NewHandlers(apiKeyRepo *repositories.APIKeyRepository) *Handlers {
	return &Handlers{apiKeyRepo: apiKeyRepo}
}

// CreateRequest is the body for POST /api/v1/apikeys
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

func requireUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return "", false
	}
	return userID, true
}

// @Summary      Create an API key
// @Description  Mint a new API key for the authenticated user. The raw key is only included in this response and cannot be retrieved again.
// @Tags         APIKeys
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  CreateRequest  true  "Key name"
// @Success      201  {object}  map[string]interface{}  "Created key metadata plus the raw key"
// @Failure      400  {object}  map[string]interface{}  "Invalid request body"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/apikeys [post]
// CreateHandler mints a new API key
// POST /api/v1/apikeys
func (h *Handlers) CreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Key name is required"})
			return
		}

		rawKey, hash, displayPrefix, err := auth.GenerateAPIKey(auth.APIKeyPrefix)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate API key"})
			return
		}

		apiKey := &models.APIKey{
			UserID:    userID,
			Name:      req.Name,
			KeyHash:   hash,
			KeyPrefix: displayPrefix,
		}
		if err := h.apiKeyRepo.CreateAPIKey(c.Request.Context(), apiKey); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store API key"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"api_key": apiKey,
			"key":     rawKey,
		})
	}
}

// @Summary      List API keys
// @Description  List the authenticated user's API keys. Key hashes are never included.
// @Tags         APIKeys
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "API keys"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/apikeys [get]
// ListHandler lists the user's API keys
// GET /api/v1/apikeys
func (h *Handlers) ListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		keys, err := h.apiKeyRepo.ListAPIKeysByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list API keys"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"api_keys": keys})
	}
}

// @Summary      Revoke an API key
// @Description  Revoke one of the authenticated user's API keys. Revoked keys stop authenticating immediately.
// @Tags         APIKeys
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "API key ID"
// @Success      200  {object}  map[string]interface{}  "Revoked"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "Key not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/apikeys/{id} [delete]
// RevokeHandler revokes an API key owned by the user
// DELETE /api/v1/apikeys/:id
func (h *Handlers) RevokeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		revoked, err := h.apiKeyRepo.RevokeAPIKey(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke API key"})
			return
		}
		if !revoked {
			// A key belonging to another user looks identical to one that
			// never existed.
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "API key revoked"})
	}
}
