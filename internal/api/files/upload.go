package files

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Upload a file
// @Description  Upload a file via multipart form. The content is encrypted under a fresh per-file key before it is stored; only metadata is returned.
// @Tags         Files
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      201  {object}  map[string]interface{}  "Stored file metadata"
// @Failure      400  {object}  map[string]interface{}  "Missing or empty file"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      413  {object}  map[string]interface{}  "File exceeds the size limit"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/files/upload [post]
// UploadHandler accepts a multipart upload under the "file" field
// POST /api/v1/files/upload
func (h *Handlers) UploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		// Cap the request body before any multipart parsing happens
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			// MaxBytesReader surfaces as a parse error here
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Missing file field or file too large",
			})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to read uploaded file",
			})
			return
		}
		defer src.Close()

		content, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to read uploaded file",
			})
			return
		}

		info, err := h.svc.Upload(c.Request.Context(), userID, fileHeader.Filename, content)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"file": info,
		})
	}
}
