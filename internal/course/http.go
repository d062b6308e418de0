package course

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"enrollment-service/internal/httputil"
	"enrollment-service/internal/metrics"
	"enrollment-service/internal/validate"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Validation failures carry the stable error codes the admin UI matches on.
var fieldErrors = map[string]httputil.FieldError{
	"course_name":        {Code: "COURSE001", Message: "Course Name is required and should be a string"},
	"course_code":        {Code: "COURSE002", Message: "Course Code is required and should be a string"},
	"course_description": {Code: "COURSE003", Message: "Course Description should be a string"},
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
	router.Post("/course", h.CreateCourse)
	router.Get("/course", h.GetAllCourses)
	router.Get("/course/{id}", h.GetCourse)
	router.Put("/course/{id}", h.UpdateCourse)
	router.Delete("/course/{id}", h.DeleteCourse)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "creating course", "course_code", req.CourseCode)
	created, err := h.service.CreateCourse(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordCourseCreated(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllCourses(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all courses")

	courses, err := h.service.GetAllCourses(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching course by ID", "course_id", id)
	course, err := h.service.GetCourseByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordCourseViewed(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "updating course", "course_id", id)
	updated, err := h.service.UpdateCourse(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordCourseUpdated(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting course", "course_id", id)
	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordCourseDeleted(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

// respondInvalidRequest maps a decode or validation failure to the first
// offending field's error code.
func respondInvalidRequest(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if fieldErr, ok := fieldErrors[typeErr.Field]; ok {
			httputil.RespondWithFieldError(w, fieldErr)
			return
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		if fieldErr, ok := fieldErrors[validationErrs[0].Field()]; ok {
			httputil.RespondWithFieldError(w, fieldErr)
			return
		}
	}

	httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrCourseNotFound) {
		h.logger.Info("course not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Course not found")
		return
	}
	if errors.Is(err, ErrCourseCodeExists) {
		h.logger.Info("course code conflict")
		httputil.RespondWithError(w, http.StatusConflict, "Course code already exists")
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
