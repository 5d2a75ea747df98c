package api

import (
	"errors"
	"net/http"

	engine "github.com/okian/eventfacets/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrBadIndex   = errors.New("facet index must be an integer")
)

// statusFor maps engine error kinds to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrUnknownSeason),
		errors.Is(err, engine.ErrUnknownFacet),
		errors.Is(err, engine.ErrUnknownValue):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, engine.ErrFetch):
		return http.StatusBadGateway, "fetch_failed"
	case errors.Is(err, engine.ErrEmbedded):
		return http.StatusInternalServerError, "embedded_invalid"
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrBadIndex):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
