package api

import (
	"errors"
	"net/http"

	"dealdesk/internal/domain"
)

// httpStatusFromDomainError maps typed domain errors to HTTP status codes.
// Unknown errors return 500 Internal Server Error.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var unauthorized *domain.UnauthorizedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
