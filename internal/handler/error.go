package handler

import (
	"errors"
	"net/http"

	"movieshop/internal/apperr"

	"github.com/labstack/echo/v4"
)

// httpError maps the service error taxonomy onto HTTP statuses. Anything
// unmapped bubbles up as a 500 through echo's error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrMovieNotFound),
		errors.Is(err, apperr.ErrCartItemNotFound),
		errors.Is(err, apperr.ErrOrderNotFound),
		errors.Is(err, apperr.ErrIntentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrInvalidQuantity),
		errors.Is(err, apperr.ErrEmptyCart),
		errors.Is(err, apperr.ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnavailable),
		errors.Is(err, apperr.ErrOutOfStock),
		errors.Is(err, apperr.ErrOrderConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrAuth):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrPaymentVerification):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
