package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ghagga-dashboard/database"
	"ghagga-dashboard/models"
	"ghagga-dashboard/scanner"
)

// errInvalidInput marks request validation failures.
var errInvalidInput = errors.New("invalid input")

// HandleError maps domain errors to an HTTP status and error body.
func HandleError(err error) (int, models.ErrorResponse) {
	status, code, message := http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"

	switch {
	case errors.Is(err, errInvalidInput), errors.Is(err, scanner.ErrBadPath):
		status, code, message = http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, database.ErrNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, scanner.ErrTimeout):
		status, code, message = http.StatusGatewayTimeout, "SCAN_TIMEOUT", err.Error()
	case errors.Is(err, scanner.ErrRulesMissing):
		status, code, message = http.StatusInternalServerError, "RULES_MISSING", err.Error()
	}

	return status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	}
}

// WriteError sends an ErrorResponse to the client.
func WriteError(w http.ResponseWriter, status int, errResp models.ErrorResponse) {
	writeJSON(w, status, errResp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
