// Package vault implements the encrypted file lifecycle: upload, listing,
// download, rename, metadata cleaning, shredding, and deletion. Every file is
// encrypted under its own AES-256-CBC key before it reaches the database and
// decrypted only on the download and clean paths. The service coordinates the
// crypto envelope, the repositories, and the activity log; it holds no state
// of its own.
package vault

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/crypto"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/telemetry"
)

// FileStore is the persistence surface the service needs for file records.
// *repositories.FileRepository satisfies it.
type FileStore interface {
	CreateFile(ctx context.Context, file *models.File) error
	GetFileByIDAndOwner(ctx context.Context, fileID, ownerID string) (*models.File, error)
	ListFilesByOwner(ctx context.Context, ownerID string) ([]*models.FileInfo, error)
	UpdateFilename(ctx context.Context, fileID, ownerID, filename string) (bool, error)
	UpdateEnvelope(ctx context.Context, fileID, ownerID string, ciphertext []byte, key, iv string) (bool, error)
	DeleteFileByIDAndOwner(ctx context.Context, fileID, ownerID string) (bool, error)
}

// ActivityStore records activity log entries. *repositories.ActivityRepository
// satisfies it.
type ActivityStore interface {
	CreateActivity(ctx context.Context, log *models.ActivityLog) error
}

// Service orchestrates the encrypted file lifecycle
type Service struct {
	files     FileStore
	activity  ActivityStore
	sanitizer Sanitizer
}

// NewService creates a new vault Service. A nil sanitizer defaults to
// NoopSanitizer.
func NewService(files FileStore, activity ActivityStore, sanitizer Sanitizer) *Service {
	if sanitizer == nil {
		sanitizer = NoopSanitizer{}
	}
	return &Service{
		files:     files,
		activity:  activity,
		sanitizer: sanitizer,
	}
}

// ShredReport describes the outcome of a shred request. Missing entries are
// IDs that did not resolve to a file owned by the caller; they are skipped,
// never treated as a failure of the whole batch.
type ShredReport struct {
	Shredded []string `json:"shredded"`
	Missing  []string `json:"missing"`
}

// Upload encrypts content under a fresh per-file key and stores the record.
// The plaintext is never persisted; only the ciphertext and the base64-encoded
// key and IV reach the database.
func (s *Service) Upload(ctx context.Context, ownerID, filename string, content []byte) (*models.FileInfo, error) {
	if len(content) == 0 {
		return nil, ErrEmptyUpload
	}

	ciphertext, key, iv, err := crypto.Encrypt(content)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	file := &models.File{
		OwnerID:    ownerID,
		Filename:   filename,
		Ciphertext: ciphertext,
		Key:        base64.StdEncoding.EncodeToString(key),
		IV:         base64.StdEncoding.EncodeToString(iv),
	}

	if err := s.files.CreateFile(ctx, file); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	telemetry.FileUploadsTotal.Inc()
	s.logActivity(ctx, ownerID, models.ActionUpload, filename)

	return &models.FileInfo{
		ID:            file.ID,
		OwnerID:       file.OwnerID,
		Filename:      file.Filename,
		Size:          int64(len(file.Ciphertext)),
		MetadataClean: file.MetadataClean,
		CreatedAt:     file.CreatedAt,
		UpdatedAt:     file.UpdatedAt,
	}, nil
}

// List returns the metadata of the owner's files, newest first. Content and
// envelope fields are excluded at the query level.
func (s *Service) List(ctx context.Context, ownerID string) ([]*models.FileInfo, error) {
	return s.files.ListFilesByOwner(ctx, ownerID)
}

// Download decrypts an owned file and returns its name and plaintext. A
// record whose envelope is incomplete or whose ciphertext fails decryption is
// reported as ErrCorruptedRecord; partial or garbled plaintext is never
// returned.
func (s *Service) Download(ctx context.Context, ownerID, fileID string) (string, []byte, error) {
	file, err := s.files.GetFileByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return "", nil, fmt.Errorf("fetch file: %w", err)
	}
	if file == nil {
		return "", nil, ErrNotFound
	}

	plaintext, err := s.decryptRecord(file)
	if err != nil {
		telemetry.DecryptionFailuresTotal.Inc()
		slog.Error("file record corrupted", "file_id", file.ID, "error", err)
		return "", nil, err
	}

	telemetry.FileDownloadsTotal.Inc()
	return file.Filename, plaintext, nil
}

// Rename changes an owned file's display name and records the transition in
// the activity log.
func (s *Service) Rename(ctx context.Context, ownerID, fileID, newName string) error {
	file, err := s.files.GetFileByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("fetch file: %w", err)
	}
	if file == nil {
		return ErrNotFound
	}

	found, err := s.files.UpdateFilename(ctx, fileID, ownerID, newName)
	if err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	if !found {
		return ErrNotFound
	}

	s.logActivity(ctx, ownerID, models.ActionRename, fmt.Sprintf("%s → %s", file.Filename, newName))
	return nil
}

// MetadataClean decrypts an owned file, runs the sanitizer over the content,
// and re-encrypts under a fresh key and IV. The old key can never decrypt the
// new ciphertext. Ciphertext, key, and IV are replaced in one statement so the
// stored envelope is always internally consistent.
func (s *Service) MetadataClean(ctx context.Context, ownerID, fileID string) error {
	file, err := s.files.GetFileByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("fetch file: %w", err)
	}
	if file == nil {
		return ErrNotFound
	}

	plaintext, err := s.decryptRecord(file)
	if err != nil {
		telemetry.DecryptionFailuresTotal.Inc()
		slog.Error("file record corrupted", "file_id", file.ID, "error", err)
		return err
	}

	cleaned, err := s.sanitizer.Sanitize(ctx, file.Filename, plaintext)
	if err != nil {
		return fmt.Errorf("sanitize content: %w", err)
	}

	ciphertext, key, iv, err := crypto.Encrypt(cleaned)
	if err != nil {
		return fmt.Errorf("re-encrypt: %w", err)
	}

	found, err := s.files.UpdateEnvelope(ctx, fileID, ownerID, ciphertext,
		base64.StdEncoding.EncodeToString(key),
		base64.StdEncoding.EncodeToString(iv),
	)
	if err != nil {
		return fmt.Errorf("store re-encrypted file: %w", err)
	}
	if !found {
		return ErrNotFound
	}

	s.logActivity(ctx, ownerID, models.ActionMetadataClean, file.Filename)
	return nil
}

// Shred destroys the named files. Each file is processed independently: the
// in-memory ciphertext buffer is zeroed, the row is deleted, and the action is
// logged. IDs that do not resolve to an owned file are reported as missing and
// skipped; one bad ID never aborts the rest of the batch.
func (s *Service) Shred(ctx context.Context, ownerID string, fileIDs []string) (*ShredReport, error) {
	if len(fileIDs) == 0 {
		return nil, ErrEmptyShredRequest
	}

	report := &ShredReport{
		Shredded: make([]string, 0, len(fileIDs)),
		Missing:  make([]string, 0),
	}

	for _, fileID := range fileIDs {
		file, err := s.files.GetFileByIDAndOwner(ctx, fileID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("fetch file %s: %w", fileID, err)
		}
		if file == nil {
			report.Missing = append(report.Missing, fileID)
			continue
		}

		// Overwrite the fetched ciphertext before deleting the row so the
		// buffer does not linger in memory with recoverable content.
		for i := range file.Ciphertext {
			file.Ciphertext[i] = 0
		}

		found, err := s.files.DeleteFileByIDAndOwner(ctx, fileID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("delete file %s: %w", fileID, err)
		}
		if !found {
			report.Missing = append(report.Missing, fileID)
			continue
		}

		telemetry.FilesShreddedTotal.Inc()
		s.logActivity(ctx, ownerID, models.ActionShred, file.Filename)
		report.Shredded = append(report.Shredded, fileID)
	}

	return report, nil
}

// Delete removes an owned file record
func (s *Service) Delete(ctx context.Context, ownerID, fileID string) error {
	file, err := s.files.GetFileByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("fetch file: %w", err)
	}
	if file == nil {
		return ErrNotFound
	}

	found, err := s.files.DeleteFileByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if !found {
		return ErrNotFound
	}

	s.logActivity(ctx, ownerID, models.ActionDelete, file.Filename)
	return nil
}

// decryptRecord validates a record's envelope and returns the plaintext. All
// failure modes collapse into ErrCorruptedRecord; the detail stays in the
// wrapped error for logs.
func (s *Service) decryptRecord(file *models.File) ([]byte, error) {
	if !file.EnvelopeIntact() {
		return nil, fmt.Errorf("%w: incomplete envelope", ErrCorruptedRecord)
	}

	key, err := base64.StdEncoding.DecodeString(file.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable key", ErrCorruptedRecord)
	}
	iv, err := base64.StdEncoding.DecodeString(file.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable iv", ErrCorruptedRecord)
	}

	plaintext, err := crypto.Decrypt(file.Ciphertext, key, iv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedRecord, err)
	}
	return plaintext, nil
}

// logActivity appends an activity entry after the mutation has committed.
// Logging is best-effort: a failed write is reported but never fails the
// operation the user already completed.
func (s *Service) logActivity(ctx context.Context, userID, action, filename string) {
	err := s.activity.CreateActivity(ctx, &models.ActivityLog{
		UserID:   userID,
		Action:   action,
		Filename: filename,
	})
	if err != nil {
		slog.Error("failed to record activity", "user_id", userID, "action", action, "error", err)
	}
}
