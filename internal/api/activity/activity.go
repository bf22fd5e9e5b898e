// Package activity implements the HTTP handler for a user's activity feed.
package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
)

// Handlers handles activity log endpoints
type Handlers struct {
	activityRepo *repositories.ActivityRepository
}

// NewHandlers creates a new activity Handlers instance
func NewHandlers(activityRepo *repositories.ActivityRepository) *Handlers {
	return &Handlers{activityRepo: activityRepo}
}

// @Summary      List own activity
// @Description  Return the authenticated user's activity log entries, newest first
// @Tags         Activity
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Entries per page (default 50, max 200)"
// @Success      200  {object}  map[string]interface{}  "Activity entries"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/activity [get]
// ListHandler returns the user's activity log, newest first
// GET /api/v1/activity
func (h *Handlers) ListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		userID, ok := userIDVal.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
		if page < 1 {
			page = 1
		}
		if perPage < 1 || perPage > 200 {
			perPage = 50
		}
		offset := (page - 1) * perPage

		logs, err := h.activityRepo.ListActivityByUser(c.Request.Context(), userID, perPage, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activity"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"activity": logs,
			"page":     page,
			"per_page": perPage,
		})
	}
}
