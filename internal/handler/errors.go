package handler

import (
	"errors"
	"net/http"

	"eshop-assistant/internal/service"

	"github.com/labstack/echo/v4"
)

// httpError maps expected business failures onto HTTP statuses. Anything
// unrecognized is returned as-is and surfaces as a 500 through echo's
// default error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrCartEmpty):
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	case errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	var productNotFound *service.ProductNotFoundError
	var categoryNotFound *service.CategoryNotFoundError
	var orderNotFound *service.OrderNotFoundError
	switch {
	case errors.As(err, &productNotFound),
		errors.As(err, &categoryNotFound),
		errors.As(err, &orderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	var categoryExists *service.CategoryExistsError
	var categoryInUse *service.CategoryInUseError
	switch {
	case errors.As(err, &categoryExists), errors.As(err, &categoryInUse):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	var ownership *service.OwnershipError
	if errors.As(err, &ownership) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}

	var stock *service.StockError
	var delivered *service.DeliveredError
	var alreadyCancelled *service.AlreadyCancelledError
	var transition *service.TransitionError
	var paymentRequired *service.PaymentRequiredError
	switch {
	case errors.As(err, &stock),
		errors.As(err, &delivered),
		errors.As(err, &alreadyCancelled),
		errors.As(err, &transition),
		errors.As(err, &paymentRequired):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return err
}
