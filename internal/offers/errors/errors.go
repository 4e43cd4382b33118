package errors

import "errors"

var (
	ErrNotFound = errors.New("offer not found")

	ErrInvalidID = errors.New("invalid offer ID format")

	ErrInsufficientSeats = errors.New("not enough available seats")
)
