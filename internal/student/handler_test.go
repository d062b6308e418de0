package student_test

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

	"enrollment-service/internal/enrollment"
	"enrollment-service/internal/metrics"
	"enrollment-service/internal/student"
	"enrollment-service/internal/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupStudentHandler(t *testing.T) (chi.Router, *bun.DB) {
	t.Helper()

	db := testdb.New(t)
	testdb.RunMigrations(t, db, (*student.Student)(nil), (*enrollment.Enrollment)(nil))

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	repo := student.NewRepository(db)
	service := student.NewService(repo, nil, logger)
	handler := student.NewHandler(service, logger, metrics.NewMock())

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

func countStudents(t *testing.T, db *bun.DB) int {
	t.Helper()
	count, err := db.NewSelect().Model((*student.Student)(nil)).Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestStudentHandler(t *testing.T) {
	router, db := setupStudentHandler(t)

	t.Run("Create_Success", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodPost, "/student", map[string]interface{}{
			"roll_number": "R1",
			"first_name":  "Ann",
			"last_name":   "Lee",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var created student.Student
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.NotZero(t, created.ID)
		assert.Equal(t, "R1", created.RollNumber)
		assert.Equal(t, "Ann", created.FirstName)
		assert.Equal(t, "Lee", created.LastName)
	})

	t.Run("Create_LastNameOptional", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodPost, "/student", map[string]interface{}{
			"roll_number": "R2",
			"first_name":  "Bob",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var created student.Student
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Empty(t, created.LastName)
	})

	t.Run("Create_DuplicateRollNumber", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		first := doRequest(t, router, http.MethodPost, "/student", map[string]interface{}{
			"roll_number": "R1",
			"first_name":  "Ann",
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := doRequest(t, router, http.MethodPost, "/student", map[string]interface{}{
			"roll_number": "R1",
			"first_name":  "Other",
		})

		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Equal(t, 1, countStudents(t, db))
	})

	t.Run("Create_MissingRollNumber", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodPost, "/student", map[string]interface{}{
			"first_name": "Ann",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "STUDENT001")
	})

	t.Run("Create_MissingFirstName", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodPost, "/student", map[string]interface{}{
			"roll_number": "R1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "STUDENT002")
	})

	t.Run("Create_RollNumberWrongType", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodPost, "/student", map[string]interface{}{
			"roll_number": 42,
			"first_name":  "Ann",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "STUDENT001")
		assert.Equal(t, 0, countStudents(t, db))
	})

	t.Run("Get_Success", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		created := createStudent(t, db, "R1", "Ann", "Lee")

		w := doRequest(t, router, http.MethodGet, "/student/"+itoa(created.ID), nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var got student.Student
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "R1", got.RollNumber)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodGet, "/student/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Student not found")
	})

	t.Run("GetAll_Success", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		createStudent(t, db, "R1", "Ann", "")
		createStudent(t, db, "R2", "Bob", "")

		w := doRequest(t, router, http.MethodGet, "/student", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var students []student.Student
		require.NoError(t, json.NewDecoder(w.Body).Decode(&students))
		assert.Len(t, students, 2)
	})

	t.Run("Update_PartialFieldsLeaveRestUntouched", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		created := createStudent(t, db, "R1", "Ann", "Lee")

		w := doRequest(t, router, http.MethodPut, "/student/"+itoa(created.ID), map[string]interface{}{
			"first_name": "Anna",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var updated student.Student
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "Anna", updated.FirstName)
		assert.Equal(t, "R1", updated.RollNumber)
		assert.Equal(t, "Lee", updated.LastName)
	})

	t.Run("Update_OwnRollNumberIsNotAConflict", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		created := createStudent(t, db, "R1", "Ann", "")

		w := doRequest(t, router, http.MethodPut, "/student/"+itoa(created.ID), map[string]interface{}{
			"roll_number": "R1",
			"first_name":  "Anna",
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Update_RollNumberConflict", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		createStudent(t, db, "R1", "Ann", "")
		other := createStudent(t, db, "R2", "Bob", "")

		w := doRequest(t, router, http.MethodPut, "/student/"+itoa(other.ID), map[string]interface{}{
			"roll_number": "R1",
		})

		assert.Equal(t, http.StatusConflict, w.Code)

		// The conflicting update must not be applied
		current, err := student.NewRepository(db).GetByID(context.Background(), other.ID)
		require.NoError(t, err)
		assert.Equal(t, "R2", current.RollNumber)
	})

	t.Run("Update_EmptyRollNumberRejected", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		created := createStudent(t, db, "R1", "Ann", "")

		w := doRequest(t, router, http.MethodPut, "/student/"+itoa(created.ID), map[string]interface{}{
			"roll_number": "",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "STUDENT001")
	})

	t.Run("Update_NotFoundCreatesNothing", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodPut, "/student/9999", map[string]interface{}{
			"first_name": "Ghost",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 0, countStudents(t, db))
	})

	t.Run("Delete_Success", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		created := createStudent(t, db, "R1", "Ann", "")

		w := doRequest(t, router, http.MethodDelete, "/student/"+itoa(created.ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		get := doRequest(t, router, http.MethodGet, "/student/"+itoa(created.ID), nil)
		assert.Equal(t, http.StatusNotFound, get.Code)
	})

	t.Run("Delete_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, db, "students")

		w := doRequest(t, router, http.MethodDelete, "/student/9999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func createStudent(t *testing.T, db *bun.DB, rollNumber, firstName, lastName string) *student.Student {
	t.Helper()

	created, err := student.NewRepository(db).Create(context.Background(), &student.Student{
		RollNumber: rollNumber,
		FirstName:  firstName,
		LastName:   lastName,
	})
	require.NoError(t, err)
	return created
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
