package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hrms/internal/domain/apperr"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// StatusFor maps a domain error kind onto an HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FailError writes err as an envelope. Domain errors keep their code and
// message, conflicts also report the current state. Anything else is logged
// and answered with fallbackCode.
func FailError(w http.ResponseWriter, err error, fallbackCode, requestID string) {
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		slog.Error("request failed", "code", fallbackCode, "err", err, "requestId", requestID)
		Fail(w, http.StatusInternalServerError, fallbackCode, "internal error", requestID)
		return
	}
	status := StatusFor(domainErr.Kind)
	if status == http.StatusInternalServerError {
		slog.Error("invariant violated", "code", domainErr.Code, "err", err, "requestId", requestID)
	}
	if domainErr.State != "" {
		FailWithDetails(w, status, domainErr.Code, domainErr.Message, map[string]string{"currentState": domainErr.State}, requestID)
		return
	}
	Fail(w, status, domainErr.Code, domainErr.Message, requestID)
}
