package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"dealdesk/internal/domain"
	"dealdesk/internal/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Error is the JSON body returned for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		message = "internal server error"
	}
	writeJSON(w, status, Error{Code: status, Message: message})
}

// decode reads a JSON request body into dst and runs struct validation.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return domain.ErrValidation("invalid request body")
		}
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		return domain.ErrValidation("invalid request body: check %s", strings.Join(fields, ", "))
	}
	return nil
}

// identity pulls the authenticated caller set by the auth middleware.
func identity(r *http.Request) (domain.Identity, error) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized("authentication required")
	}
	return ident, nil
}
