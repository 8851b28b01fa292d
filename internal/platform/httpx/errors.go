package httpx

import (
	"errors"
	"net/http"

	"github.com/shipline/shipline/internal/shared"
)

// RespondError maps domain errors onto the response envelope. Unrecognised
// errors are reported as a generic 500 so internals never leak to the caller.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, "Order not found.")
	case errors.Is(err, shared.ErrDuplicateTracking):
		Fail(w, http.StatusBadRequest, "CSLJ No already existed.")
	case errors.Is(err, shared.ErrMissingRider):
		Fail(w, http.StatusBadRequest, "Please assign a rider.")
	case errors.Is(err, shared.ErrValidation):
		Fail(w, http.StatusBadRequest, userMessage(err, "Validation failed."))
	case errors.Is(err, shared.ErrConflict):
		Fail(w, http.StatusConflict, "The order was modified concurrently, please retry.")
	case errors.Is(err, shared.ErrPersistence), errors.Is(err, shared.ErrAllocation):
		Fail(w, http.StatusBadRequest, "Failed to add parcel.")
	default:
		Fail(w, http.StatusInternalServerError, "Error processing request: "+err.Error())
	}
}

// userMessage returns err.Error() when it carries caller-safe detail,
// otherwise the fallback.
func userMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" && msg != "validation failed" {
		return msg
	}
	return fallback
}
