package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fileInfoCols = []string{
	"id", "owner_id", "filename", "size", "metadata_clean", "created_at", "updated_at",
}

var activityCols = []string{"id", "user_id", "action", "filename", "created_at"}

func newFilesRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewFileHandlers(repositories.NewFileRepository(sqlx.NewDb(db, "sqlmock")))
	r := gin.New()
	r.GET("/admin/files", h.ListFilesHandler())
	return r, mock
}

func newActivityRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewActivityHandlers(repositories.NewActivityRepository(db))
	r := gin.New()
	r.GET("/admin/activity", h.ListActivityHandler())
	return r, mock
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

func TestListFilesHandler_Success(t *testing.T) {
	r, mock := newFilesRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM files")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	rows := sqlmock.NewRows(fileInfoCols).
		AddRow("file-1", "user-1", "a.txt", 16, false, time.Now(), time.Now()).
		AddRow("file-2", "user-2", "b.pdf", 32, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM files")).
		WithArgs(50, 0).
		WillReturnRows(rows)

	w := doGet(r, "/admin/files")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Files []*models.FileInfo `json:"files"`
		Total int                `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Files) != 2 || resp.Total != 3 {
		t.Errorf("files = %d total = %d, want 2 and 3", len(resp.Files), resp.Total)
	}
	// Owners across users are visible to admins.
	if resp.Files[1].OwnerID != "user-2" {
		t.Errorf("second owner = %q, want user-2", resp.Files[1].OwnerID)
	}
}

func TestListFilesHandler_Pagination(t *testing.T) {
	r, mock := newFilesRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM files")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM files")).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(fileInfoCols))

	w := doGet(r, "/admin/files?page=3&per_page=10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListFilesHandler_DBError(t *testing.T) {
	r, mock := newFilesRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM files")).
		WillReturnError(errors.New("connection refused"))

	w := doGet(r, "/admin/files")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

func TestListActivityHandler_Success(t *testing.T) {
	r, mock := newActivityRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM activity_logs")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	rows := sqlmock.NewRows(activityCols).
		AddRow("log-2", "user-2", models.ActionShred, "b.pdf", time.Now()).
		AddRow("log-1", "user-1", models.ActionUpload, "a.txt", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM activity_logs")).
		WithArgs(50, 0).
		WillReturnRows(rows)

	w := doGet(r, "/admin/activity")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Activity []*models.ActivityLog `json:"activity"`
		Total    int                   `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Activity) != 2 || resp.Total != 2 {
		t.Errorf("entries = %d total = %d, want 2 and 2", len(resp.Activity), resp.Total)
	}
}

func TestListActivityHandler_Filters(t *testing.T) {
	r, mock := newActivityRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM activity_logs")).
		WithArgs("user-1", models.ActionUpload).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows(activityCols).
		AddRow("log-1", "user-1", models.ActionUpload, "a.txt", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM activity_logs")).
		WithArgs("user-1", models.ActionUpload, 50, 0).
		WillReturnRows(rows)

	w := doGet(r, "/admin/activity?user_id=user-1&action=upload")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListActivityHandler_BadDateFilter(t *testing.T) {
	r, _ := newActivityRouter(t)

	w := doGet(r, "/admin/activity?start_date=yesterday")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListActivityHandler_DBError(t *testing.T) {
	r, mock := newActivityRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM activity_logs")).
		WillReturnError(errors.New("connection refused"))

	w := doGet(r, "/admin/activity")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
