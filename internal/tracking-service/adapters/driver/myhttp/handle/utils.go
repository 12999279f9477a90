package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"tourguard/internal/tracking-service/core/myerrors"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response with the given status code.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrTripNotFound),
		errors.Is(err, myerrors.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, myerrors.ErrDeviceUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, myerrors.ErrMalformedFix):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
