package files

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// @Summary      Download a file
// @Description  Decrypt and return the file content. The Content-Type is inferred from the stored filename; unknown extensions fall back to application/octet-stream.
// @Tags         Files
// @Security     Bearer
// @Produce      octet-stream
// @Param        id  path  string  true  "File ID"
// @Success      200  {file}    binary  "Decrypted file content"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "File not found"
// @Failure      500  {object}  map[string]interface{}  "Corrupted record or internal error"
// @Router       /api/v1/files/{id}/download [get]
// DownloadHandler serves the decrypted content of an owned file
// GET /api/v1/files/:id/download
func (h *Handlers) DownloadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		fileID := c.Param("id")

		filename, plaintext, err := h.svc.Download(c.Request.Context(), userID, fileID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		contentType := mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
		c.Data(http.StatusOK, contentType, plaintext)
	}
}
