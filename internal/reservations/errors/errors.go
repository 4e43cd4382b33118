package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrOfferNotFound = errors.New("offer not found")

	ErrOfferInactive = errors.New("offer is not active")

	ErrExceedsCapacity = errors.New("number of guests exceeds offer capacity")

	ErrInsufficientSeats = errors.New("not enough available seats")

	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	ErrAlreadyCompleted = errors.New("reservation is already completed")

	ErrInvalidTransition = errors.New("invalid reservation status transition")

	ErrPaymentNotFound = errors.New("payment not found")

	ErrNotPending = errors.New("reservation is not awaiting payment")
)
