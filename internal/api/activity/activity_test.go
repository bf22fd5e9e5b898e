package activity

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

	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/models"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var activityCols = []string{"id", "user_id", "action", "filename", "created_at"}

func newActivityRouter(t *testing.T, userID string) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewHandlers(repositories.NewActivityRepository(db))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.GET("/activity", h.ListHandler())
	return r, mock
}

func TestListHandler_Success(t *testing.T) {
	r, mock := newActivityRouter(t, "user-1")

	now := time.Now()
	rows := sqlmock.NewRows(activityCols).
		AddRow("log-2", "user-1", models.ActionDelete, "b.pdf", now).
		AddRow("log-1", "user-1", models.ActionUpload, "a.txt", now.Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("FROM activity_logs")).
		WithArgs("user-1", 50, 0).
		WillReturnRows(rows)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/activity", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Activity []*models.ActivityLog `json:"activity"`
		Page     int                   `json:"page"`
		PerPage  int                   `json:"per_page"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Activity) != 2 {
		t.Fatalf("entries = %d, want 2", len(resp.Activity))
	}
	if resp.Activity[0].ID != "log-2" {
		t.Errorf("first entry = %q, want the newest (log-2)", resp.Activity[0].ID)
	}
	if resp.Page != 1 || resp.PerPage != 50 {
		t.Errorf("pagination = %d/%d, want 1/50", resp.Page, resp.PerPage)
	}
}

func TestListHandler_Pagination(t *testing.T) {
	r, mock := newActivityRouter(t, "user-1")

	mock.ExpectQuery(regexp.QuoteMeta("FROM activity_logs")).
		WithArgs("user-1", 10, 20).
		WillReturnRows(sqlmock.NewRows(activityCols))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/activity?page=3&per_page=10", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListHandler_ClampsBadPagination(t *testing.T) {
	r, mock := newActivityRouter(t, "user-1")

	mock.ExpectQuery(regexp.QuoteMeta("FROM activity_logs")).
		WithArgs("user-1", 50, 0).
		WillReturnRows(sqlmock.NewRows(activityCols))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/activity?page=-5&per_page=9999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestListHandler_NoUser(t *testing.T) {
	r, _ := newActivityRouter(t, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/activity", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestListHandler_DBError(t *testing.T) {
	r, mock := newActivityRouter(t, "user-1")

	mock.ExpectQuery(regexp.QuoteMeta("FROM activity_logs")).
		WithArgs("user-1", 50, 0).
		WillReturnError(errors.New("connection refused"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/activity", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
