package order

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid order input")
	ErrEmptyOrder        = errors.New("order must have at least one item")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTotalMismatch     = errors.New("total amount mismatch")
	ErrOrderNotFound     = errors.New("order not found")
	ErrForbidden         = errors.New("not authorized for this order")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
)
