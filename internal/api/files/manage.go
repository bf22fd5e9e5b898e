package files

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RenameRequest is the body for the rename endpoint
type RenameRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// ShredRequest is the body for the batch shred endpoint
type ShredRequest struct {
	FileIDs []string `json:"file_ids"`
}

// @Summary      List files
// @Description  List the caller's files, newest first. Returns metadata only — content and envelope fields never appear in list responses.
// @Tags         Files
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "List of file metadata"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/files [get]
// ListHandler lists the caller's files
// GET /api/v1/files
func (h *Handlers) ListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		infos, err := h.svc.List(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"files": infos,
		})
	}
}

// @Summary      Rename a file
// @Description  Change an owned file's display name. The stored content and encryption envelope are untouched.
// @Tags         Files
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "File ID"
// @Param        body  body  RenameRequest  true  "New filename"
// @Success      200  {object}  map[string]interface{}  "Rename confirmation"
// @Failure      400  {object}  map[string]interface{}  "Missing filename"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "File not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/files/{id}/rename [put]
// RenameHandler renames an owned file
// PUT /api/v1/files/:id/rename
func (h *Handlers) RenameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		fileID := c.Param("id")

		var req RenameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "filename is required",
			})
			return
		}

		if err := h.svc.Rename(c.Request.Context(), userID, fileID, req.Filename); err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "File renamed successfully",
		})
	}
}

// @Summary      Clean file metadata
// @Description  Run the metadata sanitizer over the decrypted content and re-encrypt it under a fresh key and IV. The previous key can no longer decrypt the stored ciphertext afterwards.
// @Tags         Files
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "File ID"
// @Success      200  {object}  map[string]interface{}  "Clean confirmation"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "File not found"
// @Failure      500  {object}  map[string]interface{}  "Corrupted record or internal error"
// @Router       /api/v1/files/{id}/clean [post]
// CleanHandler sanitizes and re-encrypts an owned file
// POST /api/v1/files/:id/clean
func (h *Handlers) CleanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		fileID := c.Param("id")

		if err := h.svc.MetadataClean(c.Request.Context(), userID, fileID); err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "File metadata cleaned",
		})
	}
}

// @Summary      Shred files
// @Description  Destroy a batch of owned files. IDs that do not resolve to an owned file are reported as missing and skipped; they never abort the rest of the batch.
// @Tags         Files
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  ShredRequest  true  "File IDs to shred"
// @Success      200  {object}  map[string]interface{}  "Shredded and missing ID lists"
// @Failure      400  {object}  map[string]interface{}  "Empty file_ids list"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/files/shred [post]
// ShredHandler destroys a batch of owned files
// POST /api/v1/files/shred
func (h *Handlers) ShredHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		var req ShredRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request",
			})
			return
		}

		report, err := h.svc.Shred(c.Request.Context(), userID, req.FileIDs)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

// @Summary      Delete a file
// @Description  Remove an owned file record.
// @Tags         Files
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "File ID"
// @Success      200  {object}  map[string]interface{}  "Deletion confirmation"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "File not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/files/{id} [delete]
// DeleteHandler removes an owned file
// DELETE /api/v1/files/:id
func (h *Handlers) DeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		fileID := c.Param("id")

		if err := h.svc.Delete(c.Request.Context(), userID, fileID); err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "File deleted successfully",
		})
	}
}
