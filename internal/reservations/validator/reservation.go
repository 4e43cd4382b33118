package validator

import (
	"errors"
	"fmt"
	"strings"

	reservationserrors "voyago/internal/reservations/errors"
	"voyago/pkg/logger"
	"voyago/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func (v *ReservationValidator) ValidateCreate(input *model.ReservationCreate) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ReservationValidator) ValidateCancel(input *model.ReservationCancel) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ReservationValidator) ValidatePayment(input *model.PaymentCreate) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

// Quote checks an offer against a guest count and prices the booking.
// Offers that track no seats (available_seats == 0) never fail the seat
// check. A promotion discounts the total by its percentage whenever the
// flag and rate are set; promotion_ends_at is informational and does not
// gate pricing.
func (v *ReservationValidator) Quote(offer *model.Offer, guests int) (float64, error) {
	if offer == nil {
		return 0, reservationserrors.ErrOfferNotFound
	}

	if !offer.IsActive {
		return 0, reservationserrors.ErrOfferInactive
	}

	if offer.MaxCapacity > 0 && guests > offer.MaxCapacity {
		return 0, reservationserrors.ErrExceedsCapacity
	}

	if offer.AvailableSeats > 0 && offer.AvailableSeats < guests {
		return 0, reservationserrors.ErrInsufficientSeats
	}

	total := offer.Price * float64(guests)

	if offer.IsPromotion && offer.PromotionDiscount > 0 {
		total -= total * offer.PromotionDiscount / 100
	}

	return total, nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
