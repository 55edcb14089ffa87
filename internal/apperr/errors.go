package apperr

import "errors"

var (
	ErrMovieNotFound       = errors.New("movie not found")
	ErrCartItemNotFound    = errors.New("movie not found in cart")
	ErrOrderNotFound       = errors.New("order not found")
	ErrIntentNotFound      = errors.New("payment intent not found")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrUnavailable         = errors.New("requested quantity exceeds availability")
	ErrOutOfStock          = errors.New("movie went out of stock during checkout")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderConflict       = errors.New("order is not in a state that allows this operation")
	ErrAuth                = errors.New("invalid or expired credentials")
	ErrPaymentVerification = errors.New("payment callback signature verification failed")
	ErrDuplicateEmail      = errors.New("email already registered")
)
