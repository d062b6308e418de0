package httputil

import (
	"encoding/json"
	"net/http"
)

// FieldError is a validation failure on a single request field, carrying the
// stable error code consumed by the admin UI.
type FieldError struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithFieldError writes a validation failure with its error code
func RespondWithFieldError(w http.ResponseWriter, fieldErr FieldError) {
	RespondWithJSON(w, http.StatusBadRequest, fieldErr)
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
