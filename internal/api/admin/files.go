// Package admin implements administrator-only HTTP handlers. All routes in
// this package sit behind RequireAdmin and see records across every owner.
package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
)

// FileHandlers handles admin file listing endpoints
type FileHandlers struct {
	fileRepo *repositories.FileRepository
}

// NewFileHandlers creates a new FileHandlers instance
func NewFileHandlers(fileRepo *repositories.FileRepository) *FileHandlers {
	return &FileHandlers{fileRepo: fileRepo}
}

func paginationParams(c *gin.Context) (page, perPage, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}
	return page, perPage, (page - 1) * perPage
}

// @Summary      List all files (admin)
// @Description  List file metadata across all owners, newest first. Never includes file content or encryption material.
// @Tags         Admin
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Entries per page (default 50, max 200)"
// @Success      200  {object}  map[string]interface{}  "Files with pagination metadata"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      403  {object}  map[string]interface{}  "Not an admin"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/admin/files [get]
// ListFilesHandler lists file metadata across all owners
// GET /api/v1/admin/files
func (h *FileHandlers) ListFilesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := paginationParams(c)

		files, total, err := h.fileRepo.ListAllFiles(c.Request.Context(), perPage, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"files":    files,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	}
}
