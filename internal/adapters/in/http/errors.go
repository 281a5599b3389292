package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// writeError maps a use case error to a status code. Unexpected errors are
// logged and reported without details.
func (s *Server) writeError(ctx echo.Context, err error) error {
	var invalid *services.InvalidTransitionError
	var failed *services.ValidationFailedError

	switch {
	case errors.As(err, &invalid):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: invalid.Error(),
		})
	case errors.As(err, &failed):
		return ctx.JSON(http.StatusUnprocessableEntity, Error{
			Code:    http.StatusUnprocessableEntity,
			Message: services.ErrValidationFailed.Error(),
			Errors:  failed.Errors,
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	}

	s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
		"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
