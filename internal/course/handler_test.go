package course_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"enrollment-service/internal/course"
	"enrollment-service/internal/enrollment"
	"enrollment-service/internal/metrics"
	"enrollment-service/internal/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupCourseHandler(t *testing.T) (chi.Router, *bun.DB) {
	t.Helper()

	db := testdb.New(t)
	testdb.RunMigrations(t, db, (*course.Course)(nil), (*enrollment.Enrollment)(nil))

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	repo := course.NewRepository(db)
	service := course.NewService(repo, nil, logger)
	handler := course.NewHandler(service, logger, metrics.NewMock())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return router, db
}

func doRequest(t *testing.T, router chi.Router, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func countCourses(t *testing.T, db *bun.DB) int {
	t.Helper()
	count, err := db.NewSelect().Model((*course.Course)(nil)).Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestCourseHandler(t *testing.T) {
	router, db := setupCourseHandler(t)

	t.Run("Create_Success", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		w := doRequest(t, router, http.MethodPost, "/course", map[string]interface{}{
			"course_name":        "Math",
			"course_code":        "C1",
			"course_description": "Introductory mathematics",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var created course.Course
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.NotZero(t, created.ID)
		assert.Equal(t, "C1", created.CourseCode)
		assert.Equal(t, "Math", created.CourseName)
		assert.Equal(t, "Introductory mathematics", created.Description)
	})

	t.Run("Create_EmptyDescriptionAllowed", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		w := doRequest(t, router, http.MethodPost, "/course", map[string]interface{}{
			"course_name":        "Math",
			"course_code":        "C1",
			"course_description": "",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Create_MissingDescriptionRejected", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		w := doRequest(t, router, http.MethodPost, "/course", map[string]interface{}{
			"course_name": "Math",
			"course_code": "C1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "COURSE003")
	})

	t.Run("Create_MissingNameReportedFirst", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		w := doRequest(t, router, http.MethodPost, "/course", map[string]interface{}{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "COURSE001")
	})

	t.Run("Create_DuplicateCodeNotPersisted", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		first := doRequest(t, router, http.MethodPost, "/course", map[string]interface{}{
			"course_name":        "Math",
			"course_code":        "C1",
			"course_description": "",
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := doRequest(t, router, http.MethodPost, "/course", map[string]interface{}{
			"course_name":        "Other Math",
			"course_code":        "C1",
			"course_description": "",
		})

		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Equal(t, 1, countCourses(t, db))
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		w := doRequest(t, router, http.MethodGet, "/course/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Course not found")
	})

	t.Run("Update_Success", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		created := createCourse(t, db, "C1", "Math", "old description")

		w := doRequest(t, router, http.MethodPut, "/course/"+strconv.Itoa(created.ID), map[string]interface{}{
			"course_name":        "Advanced Math",
			"course_code":        "C1A",
			"course_description": "new description",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var updated course.Course
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "Advanced Math", updated.CourseName)
		assert.Equal(t, "C1A", updated.CourseCode)
		assert.Equal(t, "new description", updated.Description)
	})

	t.Run("Update_DescriptionKeptWhenAbsent", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		created := createCourse(t, db, "C1", "Math", "keep me")

		w := doRequest(t, router, http.MethodPut, "/course/"+strconv.Itoa(created.ID), map[string]interface{}{
			"course_name": "Math II",
			"course_code": "C1",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var updated course.Course
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "keep me", updated.Description)
	})

	t.Run("Update_OwnCodeIsNotAConflict", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		created := createCourse(t, db, "C1", "Math", "")

		w := doRequest(t, router, http.MethodPut, "/course/"+strconv.Itoa(created.ID), map[string]interface{}{
			"course_name": "Math II",
			"course_code": "C1",
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Update_CodeConflict", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		createCourse(t, db, "C1", "Math", "")
		other := createCourse(t, db, "C2", "Physics", "")

		w := doRequest(t, router, http.MethodPut, "/course/"+strconv.Itoa(other.ID), map[string]interface{}{
			"course_name": "Physics",
			"course_code": "C1",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		w := doRequest(t, router, http.MethodPut, "/course/9999", map[string]interface{}{
			"course_name": "Ghost",
			"course_code": "G1",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 0, countCourses(t, db))
	})

	t.Run("Delete_Success", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		created := createCourse(t, db, "C1", "Math", "")

		w := doRequest(t, router, http.MethodDelete, "/course/"+strconv.Itoa(created.ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		get := doRequest(t, router, http.MethodGet, "/course/"+strconv.Itoa(created.ID), nil)
		assert.Equal(t, http.StatusNotFound, get.Code)
	})

	t.Run("Delete_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, db, "courses")

		w := doRequest(t, router, http.MethodDelete, "/course/9999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func createCourse(t *testing.T, db *bun.DB, code, name, description string) *course.Course {
	t.Helper()

	created, err := course.NewRepository(db).Create(context.Background(), &course.Course{
		CourseCode:  code,
		CourseName:  name,
		Description: description,
	})
	require.NoError(t, err)
	return created
}
