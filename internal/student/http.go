package student

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
	"roll_number": {Code: "STUDENT001", Message: "Roll Number is required and should be a string"},
	"first_name":  {Code: "STUDENT002", Message: "First Name is required and should be a string"},
	"last_name":   {Code: "STUDENT003", Message: "Last Name should be a string"},
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
	router.Post("/student", h.CreateStudent)
	router.Get("/student", h.GetAllStudents)
	router.Get("/student/{id}", h.GetStudent)
	router.Put("/student/{id}", h.UpdateStudent)
	router.Delete("/student/{id}", h.DeleteStudent)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "roll_number", req.RollNumber)
	created, err := h.service.CreateStudent(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordStudentCreated(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all students")

	students, err := h.service.GetAllStudents(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching student by ID", "student_id", id)
	student, err := h.service.GetStudentByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordStudentViewed(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var req UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondInvalidRequest(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "updating student", "student_id", id)
	updated, err := h.service.UpdateStudent(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordStudentUpdated(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting student", "student_id", id)
	if err := h.service.DeleteStudent(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordStudentDeleted(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

// respondInvalidRequest maps a decode or validation failure to the first
// offending field's error code. Decode type errors and validator errors both
// resolve through the same field table.
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
	if errors.Is(err, ErrStudentNotFound) {
		h.logger.Info("student not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	if errors.Is(err, ErrRollNumberExists) {
		h.logger.Info("roll number conflict")
		httputil.RespondWithError(w, http.StatusConflict, "Student already exists")
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
