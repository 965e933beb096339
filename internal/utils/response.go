package utils

import (
	"encoding/json"
	"net/http"

	"GO2GETHER_EXPENSES/internal/apperror"
	"GO2GETHER_EXPENSES/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a JSON error envelope
func WriteErrorResponse(w http.ResponseWriter, status int, message, detail string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Message: message, Error: detail})
}

// WriteAppError maps an application error to its HTTP status and writes it.
// Unrecognized errors become 500s with a generic message.
func WriteAppError(w http.ResponseWriter, err error) {
	switch {
	case apperror.IsKind(err, apperror.KindValidation):
		WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
	case apperror.IsKind(err, apperror.KindNotFound):
		WriteErrorResponse(w, http.StatusNotFound, "Not Found", err.Error())
	case apperror.IsKind(err, apperror.KindAuthorization):
		WriteErrorResponse(w, http.StatusForbidden, "Forbidden", err.Error())
	case apperror.IsKind(err, apperror.KindNoDebt):
		WriteErrorResponse(w, http.StatusConflict, "Nothing to settle", err.Error())
	default:
		WriteErrorResponse(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// DecodeJSONRequest decodes the request body into dst, writing a 400 on
// failure. Callers just return when an error is reported.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return err
	}
	return nil
}
