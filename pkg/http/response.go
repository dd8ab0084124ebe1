package http

import (
	"encoding/json"
	"net/http"

	"github.com/ReawEiEi/hotel-booking-server/pkg/envelope"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"
)

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// StatusFor maps an error to its HTTP status. Errors that are not AppErrors are 500.
func StatusFor(err error) int {
	appErr := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidation, apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeConflict:
		return http.StatusConflict
	case apperrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as a failure envelope. Server-side failures expose only
// their message; the wrapped cause stays in the logs.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	status := StatusFor(appErr)

	if status >= http.StatusInternalServerError {
		return WriteJSON(w, status, envelope.Failure(appErr.Message))
	}
	return WriteJSON(w, status, envelope.FailureWithDetails(appErr.Message, appErr.Details))
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, envelope.Success(data))
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, envelope.Success(data))
}

func WriteList[T any](w http.ResponseWriter, data []T, pagination *model.Pagination) error {
	return WriteJSON(w, http.StatusOK, envelope.List(data, pagination))
}
