package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newFileRepo(t *testing.T) (*FileRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFileRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var fileCols = []string{
	"id", "owner_id", "filename", "ciphertext", "enc_key", "enc_iv",
	"metadata_clean", "created_at", "updated_at",
}

var fileInfoCols = []string{
	"id", "owner_id", "filename", "size", "metadata_clean", "created_at", "updated_at",
}

func sampleFileRow() *sqlmock.Rows {
	return sqlmock.NewRows(fileCols).
		AddRow("file-1", "user-1", "notes.txt", []byte("ciphertext"), "a2V5", "aXY=", false, time.Now(), time.Now())
}

func sampleFileInfoRow() *sqlmock.Rows {
	return sqlmock.NewRows(fileInfoCols).
		AddRow("file-1", "user-1", "notes.txt", 16, false, time.Now(), time.Now())
}

// ---------------------------------------------------------------------------
// CreateFile
// ---------------------------------------------------------------------------

func TestCreateFile_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("INSERT INTO files").
		WillReturnResult(sqlmock.NewResult(1, 1))

	file := &models.File{
		OwnerID:    "user-1",
		Filename:   "notes.txt",
		Ciphertext: []byte("ciphertext"),
		Key:        "a2V5",
		IV:         "aXY=",
	}
	if err := repo.CreateFile(context.Background(), file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ID == "" {
		t.Error("expected ID to be set")
	}
}

func TestCreateFile_DBError(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("INSERT INTO files").
		WillReturnError(errDB)

	file := &models.File{OwnerID: "user-1", Filename: "notes.txt"}
	if err := repo.CreateFile(context.Background(), file); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetFileByIDAndOwner
// ---------------------------------------------------------------------------

func TestGetFileByIDAndOwner_Found(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT.*FROM files WHERE id.*AND owner_id").
		WithArgs("file-1", "user-1").
		WillReturnRows(sampleFileRow())

	file, err := repo.GetFileByIDAndOwner(context.Background(), "file-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file == nil {
		t.Fatal("expected file, got nil")
	}
	if file.Key != "a2V5" {
		t.Errorf("Key = %s, want a2V5", file.Key)
	}
}

func TestGetFileByIDAndOwner_WrongOwner(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT.*FROM files WHERE id.*AND owner_id").
		WithArgs("file-1", "user-2").
		WillReturnRows(sqlmock.NewRows(fileCols))

	file, err := repo.GetFileByIDAndOwner(context.Background(), "file-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file != nil {
		t.Error("expected nil for wrong owner, got file")
	}
}

func TestGetFileByIDAndOwner_DBError(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT.*FROM files WHERE id.*AND owner_id").
		WillReturnError(errDB)

	_, err := repo.GetFileByIDAndOwner(context.Background(), "file-1", "user-1")
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// ListFilesByOwner
// ---------------------------------------------------------------------------

func TestListFilesByOwner_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT.*length\\(ciphertext\\).*FROM files.*WHERE owner_id").
		WithArgs("user-1").
		WillReturnRows(sampleFileInfoRow())

	files, err := repo.ListFilesByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("len(files) = %d, want 1", len(files))
	}
	if files[0].Size != 16 {
		t.Errorf("Size = %d, want 16", files[0].Size)
	}
}

func TestListFilesByOwner_Empty(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT.*FROM files.*WHERE owner_id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(fileInfoCols))

	files, err := repo.ListFilesByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("len(files) = %d, want 0", len(files))
	}
}

// ---------------------------------------------------------------------------
// ListAllFiles
// ---------------------------------------------------------------------------

func TestListAllFiles_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM files").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT.*FROM files.*ORDER BY created_at").
		WillReturnRows(sampleFileInfoRow())

	files, total, err := repo.ListAllFiles(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if len(files) != 1 {
		t.Errorf("len(files) = %d, want 1", len(files))
	}
}

func TestListAllFiles_CountError(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM files").
		WillReturnError(errDB)

	_, _, err := repo.ListAllFiles(context.Background(), 50, 0)
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// ListAllFileRecords
// ---------------------------------------------------------------------------

func TestListAllFileRecords_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT.*FROM files ORDER BY id").
		WillReturnRows(sampleFileRow())

	files, err := repo.ListAllFileRecords(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("len(files) = %d, want 1", len(files))
	}
}

// ---------------------------------------------------------------------------
// UpdateFilename
// ---------------------------------------------------------------------------

func TestUpdateFilename_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("UPDATE files.*SET filename").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.UpdateFilename(context.Background(), "file-1", "user-1", "renamed.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected found=true")
	}
}

func TestUpdateFilename_NotOwned(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("UPDATE files.*SET filename").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.UpdateFilename(context.Background(), "file-1", "user-2", "renamed.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected found=false for unowned file")
	}
}

func TestUpdateFilename_DBError(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("UPDATE files.*SET filename").
		WillReturnError(errDB)

	_, err := repo.UpdateFilename(context.Background(), "file-1", "user-1", "renamed.txt")
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// UpdateEnvelope
// ---------------------------------------------------------------------------

func TestUpdateEnvelope_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("UPDATE files.*SET ciphertext.*metadata_clean = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.UpdateEnvelope(context.Background(), "file-1", "user-1", []byte("new"), "bmV3a2V5", "bmV3aXY=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected found=true")
	}
}

func TestUpdateEnvelope_NotOwned(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("UPDATE files.*SET ciphertext").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.UpdateEnvelope(context.Background(), "file-1", "user-2", []byte("new"), "bmV3a2V5", "bmV3aXY=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected found=false for unowned file")
	}
}

// ---------------------------------------------------------------------------
// DeleteFileByIDAndOwner
// ---------------------------------------------------------------------------

func TestDeleteFileByIDAndOwner_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("DELETE FROM files WHERE id.*AND owner_id").
		WithArgs("file-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.DeleteFileByIDAndOwner(context.Background(), "file-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected found=true")
	}
}

func TestDeleteFileByIDAndOwner_NotOwned(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("DELETE FROM files WHERE id.*AND owner_id").
		WithArgs("file-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.DeleteFileByIDAndOwner(context.Background(), "file-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected found=false for unowned file")
	}
}

func TestDeleteFileByIDAndOwner_DBError(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectExec("DELETE FROM files").
		WillReturnError(errDB)

	_, err := repo.DeleteFileByIDAndOwner(context.Background(), "file-1", "user-1")
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// CountFiles
// ---------------------------------------------------------------------------

func TestCountFiles_Success(t *testing.T) {
	repo, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM files").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountFiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}
