package product

import "errors"

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrMalformedEvent    = errors.New("malformed event")
	ErrVersionConflict   = errors.New("product was modified concurrently")
	ErrInvalidInput      = errors.New("invalid input")
)
