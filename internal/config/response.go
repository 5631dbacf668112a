package config

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// RespondJSON is a helper function to send JSON responses
func RespondJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response and logs it when a logger is given
func RespondError(w http.ResponseWriter, statusCode int, message string, details string, logger *slog.Logger) {
	if logger != nil {
		logger.Error("responding with error",
			"status_code", statusCode,
			"message", message,
			"details", details,
		)
	}

	RespondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Details: details,
	})
}

// RespondInternalError is a helper for 500 errors; internal details are never exposed
func RespondInternalError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Error("internal server error", "error", err)
	}

	RespondJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal Server Error",
		Message: "An unexpected error occurred",
	})
}

// RespondForbidden is a helper for 403 errors
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusForbidden, ErrorResponse{
		Error:   "Forbidden",
		Message: message,
	})
}
