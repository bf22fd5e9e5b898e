// Package files implements the authenticated file-vault HTTP handlers: upload,
// listing, download, rename, metadata cleaning, shredding, and deletion. Every
// route requires the auth middleware to have populated user_id in the gin
// context; ownership enforcement lives in the vault service, which reports a
// file owned by someone else exactly like a file that does not exist.
package files

import (
	"context"
	"errors"
	"net/http"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/vault"
	"github.com/gin-gonic/gin"
)

// VaultService is the slice of the vault service the handlers need.
// *vault.Service satisfies it.
type VaultService interface {
	Upload(ctx context.Context, ownerID, filename string, content []byte) (*models.FileInfo, error)
	List(ctx context.Context, ownerID string) ([]*models.FileInfo, error)
	Download(ctx context.Context, ownerID, fileID string) (string, []byte, error)
	Rename(ctx context.Context, ownerID, fileID, newName string) error
	MetadataClean(ctx context.Context, ownerID, fileID string) error
	Shred(ctx context.Context, ownerID string, fileIDs []string) (*vault.ShredReport, error)
	Delete(ctx context.Context, ownerID, fileID string) error
}

// Handlers holds the file route handlers
type Handlers struct {
	svc      VaultService
	maxBytes int64
}

// NewHandlers creates file handlers. maxBytes caps the size of a single
// uploaded file.
func NewHandlers(svc VaultService, maxBytes int64) *Handlers {
	return &Handlers{svc: svc, maxBytes: maxBytes}
}

// requireUserID reads the authenticated user from the gin context. The auth
// middleware always sets it; a missing value means the route was wired without
// auth, which is a server error rather than a client one.
func requireUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return "", false
	}
	return userID, true
}

// respondServiceError maps vault service errors to HTTP statuses. Corrupted
// records get a distinct body so operators can tell integrity incidents apart
// from missing resources in access logs.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vault.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "File not found",
		})
	case errors.Is(err, vault.ErrEmptyUpload):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Uploaded file is empty",
		})
	case errors.Is(err, vault.ErrEmptyShredRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No file ids provided",
		})
	case errors.Is(err, vault.ErrCorruptedRecord):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "File record is corrupted and cannot be served",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
