package enrollment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"enrollment-service/internal/course"
	"enrollment-service/internal/httputil"
	"enrollment-service/internal/metrics"
	"enrollment-service/internal/student"
	"enrollment-service/internal/validate"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var courseIDFieldError = httputil.FieldError{
	Code:    "ENROLLMENT003",
	Message: "Course ID is required and should be an integer",
}

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validate.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/student/{id}/course", h.ListEnrollments)
	router.Post("/student/{id}/course", h.Enroll)
	router.Delete("/student/{id}/course/{courseID}", h.Unenroll)
}

func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "listing enrollments", "student_id", studentID)
	enrollments, err := h.service.ListForStudent(r.Context(), studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, enrollments)
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "enrolling student", "student_id", studentID, "course_id", req.CourseID)
	created, err := h.service.Enroll(r.Context(), studentID, req.CourseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEnrollmentCreated(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}
	courseID, err := strconv.Atoi(chi.URLParam(r, "courseID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	h.logger.InfoContext(r.Context(), "unenrolling student", "student_id", studentID, "course_id", courseID)
	if err := h.service.Unenroll(r.Context(), studentID, courseID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordEnrollmentDeleted(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func respondInvalidRequest(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "course_id" {
		httputil.RespondWithFieldError(w, courseIDFieldError)
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		httputil.RespondWithFieldError(w, courseIDFieldError)
		return
	}

	httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, student.ErrStudentNotFound) {
		h.logger.Info("student not found")
		httputil.RespondWithJSON(w, http.StatusNotFound, httputil.FieldError{
			Code:    "ENROLLMENT002",
			Message: "Student does not exist",
		})
		return
	}
	if errors.Is(err, course.ErrCourseNotFound) {
		h.logger.Info("course not found")
		httputil.RespondWithJSON(w, http.StatusNotFound, httputil.FieldError{
			Code:    "ENROLLMENT001",
			Message: "Course does not exist",
		})
		return
	}
	if errors.Is(err, ErrAlreadyEnrolled) {
		h.logger.Info("duplicate enrollment")
		httputil.RespondWithError(w, http.StatusConflict, "The student is already enrolled")
		return
	}
	if errors.Is(err, ErrEnrollmentNotFound) {
		h.logger.Info("enrollment not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Enrollment for the student not found")
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		h.logger.Info("invalid input")
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
