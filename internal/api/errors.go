package api

import (
	"errors"
	"net/http"

	"github.com/zstar1003/Tosticker/internal/store"
)

// Sentinel errors for the command surface.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadRequest     = errors.New("invalid request body")
)

// statusFor maps an error returned by a command to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalid), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
