package common

import (
	"encoding/json"
	"errors"
	"net/http"

	analyticsdomain "contribution-tracker-go/internal/domain/analytics"
	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"contribution-tracker-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// StatusFor maps a service error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, trackerdomain.ErrValidation):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, trackerdomain.ErrInvalidFormat):
		return http.StatusBadRequest, "invalid_format"
	case errors.Is(err, trackerdomain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, trackerdomain.ErrConstraintViolation):
		return http.StatusConflict, "constraint_violation"
	case errors.Is(err, analyticsdomain.ErrMonthOutOfRange):
		return http.StatusUnprocessableEntity, "month_out_of_range"
	case errors.Is(err, trackerdomain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// WriteServiceError logs err under op and writes the matching envelope.
// Internal errors are reported without detail.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	status, code := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.InternalError(op, err, args...)
		message := "internal error"
		if status == http.StatusServiceUnavailable {
			message = "storage unavailable"
		}
		writeError(w, status, code, message)
		return
	}

	log.BusinessError(op, err, args...)
	body := errorBody{Code: code, Message: err.Error()}
	var validation *trackerdomain.ValidationError
	if errors.As(err, &validation) {
		body.Field = validation.Field
	}
	writeJSON(w, status, errorEnvelope{Error: body})
}
