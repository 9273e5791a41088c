package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayush/krishi-mitr/backend/internal/apperr"
	"github.com/ayush/krishi-mitr/backend/internal/logger"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error maps err to a status code. Client errors carry their own message;
// anything else is logged and reported as an internal error.
func Error(w http.ResponseWriter, log *logger.Logger, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		Message(w, appErr.Kind.Status(), appErr.Message)
		return
	}
	log.Errorw("request failed", "error", err)
	Message(w, http.StatusInternalServerError, "Internal server error")
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
