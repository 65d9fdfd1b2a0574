package app

import (
	"errors"
	"fmt"
)

var (
	// ErrCartNotFound means no cart matches the token. Callers treat it as
	// "no cart yet", not as a failure.
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")
	// ErrDuplicateItem is returned by a store when an insert hits the
	// (cart, product) uniqueness constraint.
	ErrDuplicateItem = errors.New("cart item already exists")

	ErrStorageFailure  = errors.New("storage failure")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrProductNotFound = errors.New("product not found")
)

// storageFailure wraps a store error for callers. A missing cart keeps its own
// identity; everything else becomes ErrStorageFailure.
func storageFailure(op string, err error) error {
	if errors.Is(err, ErrCartNotFound) {
		return fmt.Errorf("%s: %w", op, ErrCartNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
}
