package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ReawEiEi/hotel-booking-server/pkg/envelope"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
)

func writeAppError(w http.ResponseWriter, err *apperrors.AppError) {
	writeFailure(w, err.StatusCode(), err.Message)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope.Failure(message))
}
