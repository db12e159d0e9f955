package utils

import (
	"encoding/json"
	"net/http"
)

// Machine-stable error codes carried on every error payload so callers can
// branch without parsing messages.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func NotFound(message string) *APIError {
	return &APIError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func InvalidArgument(message string) *APIError {
	return &APIError{Code: CodeInvalidArgument, Message: message, Status: http.StatusBadRequest}
}

// Conflict reports a slot lost to a concurrent winner. It maps to 400 rather
// than 409 to keep the original API contract.
func Conflict(message string) *APIError {
	return &APIError{Code: CodeConflict, Message: message, Status: http.StatusBadRequest}
}

func Internal(message string) *APIError {
	return &APIError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError}
}

func WriteError(w http.ResponseWriter, apiErr *APIError) {
	WriteJSON(w, apiErr.Status, apiErr)
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
