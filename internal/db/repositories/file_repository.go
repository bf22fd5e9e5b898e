// file_repository.go implements FileRepository, providing database queries for
// encrypted file records. Owner-scoped queries filter by owner_id in SQL so a
// caller can never observe another user's files; a wrong-owner lookup is
// indistinguishable from a missing row.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
)

// FileRepository handles database operations for encrypted file records
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// CreateFile inserts a new encrypted file record
func (r *FileRepository) CreateFile(ctx context.Context, file *models.File) error {
	file.ID = uuid.New().String()
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt

	query := `
		INSERT INTO files (id, owner_id, filename, ciphertext, enc_key, enc_iv, metadata_clean, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.OwnerID,
		file.Filename,
		file.Ciphertext,
		file.Key,
		file.IV,
		file.MetadataClean,
		file.CreatedAt,
		file.UpdatedAt,
	)

	return err
}

// GetFileByIDAndOwner retrieves a file record only if it belongs to the given
// owner. Returns (nil, nil) when no such row exists, including the case where
// the file exists but the owner does not match.
func (r *FileRepository) GetFileByIDAndOwner(ctx context.Context, fileID, ownerID string) (*models.File, error) {
	var file models.File
	query := `SELECT * FROM files WHERE id = $1 AND owner_id = $2`
	err := r.db.GetContext(ctx, &file, query, fileID, ownerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListFilesByOwner retrieves the metadata projection of an owner's files,
// newest first. Ciphertext and the envelope fields never leave the database
// on this path; size is computed server-side from the stored ciphertext.
func (r *FileRepository) ListFilesByOwner(ctx context.Context, ownerID string) ([]*models.FileInfo, error) {
	files := make([]*models.FileInfo, 0)
	query := `
		SELECT id, owner_id, filename, length(ciphertext) AS size, metadata_clean, created_at, updated_at
		FROM files
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &files, query, ownerID)
	return files, err
}

// ListAllFiles retrieves every file's metadata projection, newest first.
// Admin-only callers.
func (r *FileRepository) ListAllFiles(ctx context.Context, limit, offset int) ([]*models.FileInfo, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM files`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	files := make([]*models.FileInfo, 0)
	query := `
		SELECT id, owner_id, filename, length(ciphertext) AS size, metadata_clean, created_at, updated_at
		FROM files
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	err := r.db.SelectContext(ctx, &files, query, limit, offset)
	return files, total, err
}

// ListAllFileRecords retrieves full file rows in id order for background
// integrity scans. Unlike the listing projections this includes the envelope
// fields, so callers must never expose the rows directly.
func (r *FileRepository) ListAllFileRecords(ctx context.Context, limit, offset int) ([]*models.File, error) {
	files := make([]*models.File, 0)
	query := `SELECT * FROM files ORDER BY id LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &files, query, limit, offset)
	return files, err
}

// UpdateFilename renames a file owned by the given owner. Returns
// sql.ErrNoRows semantics via the found flag: false means no owned row
// matched.
func (r *FileRepository) UpdateFilename(ctx context.Context, fileID, ownerID, filename string) (bool, error) {
	query := `
		UPDATE files
		SET filename = $3, updated_at = $4
		WHERE id = $1 AND owner_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, fileID, ownerID, filename, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateEnvelope atomically replaces a file's ciphertext, key, and IV in a
// single statement and marks the record metadata-clean. The three fields are
// never written independently; a reader sees either the old envelope or the
// new one, never a mix.
func (r *FileRepository) UpdateEnvelope(ctx context.Context, fileID, ownerID string, ciphertext []byte, key, iv string) (bool, error) {
	query := `
		UPDATE files
		SET ciphertext = $3, enc_key = $4, enc_iv = $5, metadata_clean = TRUE, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, fileID, ownerID, ciphertext, key, iv, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteFileByIDAndOwner removes a file owned by the given owner. The found
// flag is false when no owned row matched.
func (r *FileRepository) DeleteFileByIDAndOwner(ctx context.Context, fileID, ownerID string) (bool, error) {
	query := `DELETE FROM files WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, fileID, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountFiles returns the total number of file records
func (r *FileRepository) CountFiles(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM files`)
	return total, err
}
