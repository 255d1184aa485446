package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/auth"
	"github.com/carson-networks/banking-view/internal/service"
	"github.com/carson-networks/banking-view/internal/view"
)

// UserID returns the caller's user id, or a 401 when the identity
// middleware did not run.
func UserID(ctx context.Context) (uuid.UUID, error) {
	identity, ok := auth.FromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("missing identity")
	}
	return identity.UserID, nil
}

// FromView maps service and view errors to HTTP statuses.
func FromView(msg string, err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return huma.NewError(http.StatusBadRequest, msg, &huma.ErrorDetail{
			Message:  validationErr.Reason,
			Location: "body." + validationErr.Field,
		})
	case errors.Is(err, view.ErrUnknownAccount):
		return huma.NewError(http.StatusNotFound, msg, err)
	case errors.Is(err, service.ErrConstraintViolation), errors.Is(err, view.ErrSubmitInProgress),
		errors.Is(err, view.ErrSelectionSuperseded):
		return huma.NewError(http.StatusConflict, msg, err)
	case errors.Is(err, service.ErrStoreUnavailable), errors.Is(err, view.ErrSessionStopped):
		return huma.NewError(http.StatusServiceUnavailable, msg, err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.NewError(http.StatusGatewayTimeout, msg, err)
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}
