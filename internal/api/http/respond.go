package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

// SendJSON writes data as a JSON response.
func SendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// SendError writes the {"message": ...} error body. Internal errors are not
// echoed to the caller.
func SendError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "Internal Server Error"
	case http.StatusServiceUnavailable:
		logger.Warn("Store unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "Service temporarily unavailable"
	case http.StatusNotFound:
		msg = "Participant not found"
	}
	SendJSON(w, status, messageResponse{Message: msg})
}

// SendListing writes a listing, serving an empty one when the store is down.
func SendListing[T any](w http.ResponseWriter, r *http.Request, items T, err error, empty T) {
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			logger.Warn("Serving empty listing", "path", r.URL.Path, "error", err)
			w.Header().Set(domain.DegradedHeader, "1")
			SendJSON(w, http.StatusOK, empty)
			return
		}
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusOK, items)
}

const (
	// jsonBodyLimit caps request bodies that carry no image.
	jsonBodyLimit int64 = 64 << 10
	// defaultPassImageBytes applies when no image size limit is configured.
	defaultPassImageBytes int64 = 10 << 20
)

// passBodyLimit is the largest save-pass body accepted for a decoded image
// limit of maxImage bytes: the base64 expansion plus room for the other fields.
func passBodyLimit(maxImage int64) int64 {
	if maxImage <= 0 {
		maxImage = defaultPassImageBytes
	}
	return (maxImage+2)/3*4 + jsonBodyLimit
}

// decodeJSON reads at most limit bytes of JSON from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return domain.NewValidationError("invalid JSON body")
	}
	return nil
}
