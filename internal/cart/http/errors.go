package http

import (
	"errors"
	"net/http"

	"github.com/dwikikusuma/flowmazon/internal/cart/app"
)

// statusFromErr maps cart service errors to an HTTP status and a stable code.
func statusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, app.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, app.ErrCartNotFound):
		return http.StatusNotFound, "CART_NOT_FOUND"
	case errors.Is(err, app.ErrStorageFailure):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
