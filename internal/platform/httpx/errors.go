package httpx

import (
	"errors"
	"net/http"

	"github.com/readgate/readgate/internal/shared"
)

// RespondError maps core sentinel errors to HTTP responses. The core never
// decides HTTP status codes itself; this adapter is the only place expected
// outcomes are translated to the wire.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Unauthenticated")
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Resource not found")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// RespondValidation reports request validation failures.
func RespondValidation(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnprocessableEntity, message)
}
