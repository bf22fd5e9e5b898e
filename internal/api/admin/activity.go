package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
)

// ActivityHandlers handles admin activity log endpoints
type ActivityHandlers struct {
	activityRepo *repositories.ActivityRepository
}

// NewActivityHandlers creates a new ActivityHandlers instance
func NewActivityHandlers(activityRepo *repositories.ActivityRepository) *ActivityHandlers {
	return &ActivityHandlers{activityRepo: activityRepo}
}

// @Summary      List all activity (admin)
// @Description  List activity log entries across all users, newest first, with optional filters
// @Tags         Admin
// @Security     Bearer
// @Produce      json
// @Param        page        query  int     false  "Page number (default 1)"
// @Param        per_page    query  int     false  "Entries per page (default 50, max 200)"
// @Param        user_id     query  string  false  "Filter by user ID"
// @Param        action      query  string  false  "Filter by action (upload, delete, rename, shred, metadata_clean)"
// @Param        start_date  query  string  false  "RFC 3339 lower bound on created_at"
// @Param        end_date    query  string  false  "RFC 3339 upper bound on created_at"
// @Success      200  {object}  map[string]interface{}  "Activity entries with pagination metadata"
// @Failure      400  {object}  map[string]interface{}  "Invalid date filter"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      403  {object}  map[string]interface{}  "Not an admin"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/admin/activity [get]
// ListActivityHandler lists activity across all users with optional filters
// GET /api/v1/admin/activity
func (h *ActivityHandlers) ListActivityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := paginationParams(c)

		var filters repositories.ActivityFilters
		if v := c.Query("user_id"); v != "" {
			filters.UserID = &v
		}
		if v := c.Query("action"); v != "" {
			filters.Action = &v
		}
		if v := c.Query("start_date"); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be RFC 3339"})
				return
			}
			filters.StartDate = &ts
		}
		if v := c.Query("end_date"); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be RFC 3339"})
				return
			}
			filters.EndDate = &ts
		}

		logs, total, err := h.activityRepo.ListActivity(c.Request.Context(), filters, perPage, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activity"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"activity": logs,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	}
}
