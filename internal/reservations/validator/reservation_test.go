package validator

import (
	"errors"
	"testing"
	"time"

	reservationserrors "voyago/internal/reservations/errors"
	"voyago/pkg/logger"
	"voyago/pkg/model"
)

func newTestValidator(t *testing.T) *ReservationValidator {
	t.Helper()
	log := logger.New(logger.Config{Level: logger.ERROR})
	return NewReservationValidator(log)
}

func activeOffer() *model.Offer {
	return &model.Offer{
		ID:             "64f1b2a3c4d5e6f7a8b9c0d1",
		Title:          "Dakar Getaway",
		Price:          250000,
		Currency:       "XOF",
		IsActive:       true,
		AvailableSeats: 10,
		MaxCapacity:    20,
	}
}

func TestQuotePricesPerGuest(t *testing.T) {
	v := newTestValidator(t)

	total, err := v.Quote(activeOffer(), 4)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if total != 1000000 {
		t.Errorf("expected total 1000000, got %f", total)
	}
}

func TestQuoteAppliesPromotionDiscount(t *testing.T) {
	v := newTestValidator(t)

	offer := activeOffer()
	offer.IsPromotion = true
	offer.PromotionDiscount = 20

	total, err := v.Quote(offer, 2)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if total != 400000 {
		t.Errorf("expected discounted total 400000, got %f", total)
	}
}

func TestQuoteAppliesPromotionPastEndDate(t *testing.T) {
	v := newTestValidator(t)

	ended := time.Now().Add(-24 * time.Hour)
	offer := activeOffer()
	offer.IsPromotion = true
	offer.PromotionDiscount = 20
	offer.PromotionEndsAt = &ended

	// promotion_ends_at does not gate pricing: the discount holds as
	// long as the flag and rate are set.
	total, err := v.Quote(offer, 2)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if total != 400000 {
		t.Errorf("expected discounted total 400000, got %f", total)
	}
}

func TestQuoteRejectsInactiveOffer(t *testing.T) {
	v := newTestValidator(t)

	offer := activeOffer()
	offer.IsActive = false

	_, err := v.Quote(offer, 1)
	if !errors.Is(err, reservationserrors.ErrOfferInactive) {
		t.Errorf("expected ErrOfferInactive, got %v", err)
	}
}

func TestQuoteRejectsGuestsOverCapacity(t *testing.T) {
	v := newTestValidator(t)

	offer := activeOffer()
	offer.MaxCapacity = 3

	_, err := v.Quote(offer, 4)
	if !errors.Is(err, reservationserrors.ErrExceedsCapacity) {
		t.Errorf("expected ErrExceedsCapacity, got %v", err)
	}
}

func TestQuoteRejectsInsufficientSeats(t *testing.T) {
	v := newTestValidator(t)

	offer := activeOffer()
	offer.AvailableSeats = 2

	_, err := v.Quote(offer, 5)
	if !errors.Is(err, reservationserrors.ErrInsufficientSeats) {
		t.Errorf("expected ErrInsufficientSeats, got %v", err)
	}
}

func TestQuoteTreatsZeroSeatsAsUnlimited(t *testing.T) {
	v := newTestValidator(t)

	offer := activeOffer()
	offer.AvailableSeats = 0

	total, err := v.Quote(offer, 15)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if total != 250000*15 {
		t.Errorf("unexpected total %f", total)
	}
}

func TestQuoteCapacityCheckedBeforeSeats(t *testing.T) {
	v := newTestValidator(t)

	offer := activeOffer()
	offer.MaxCapacity = 5
	offer.AvailableSeats = 2

	_, err := v.Quote(offer, 10)
	if !errors.Is(err, reservationserrors.ErrExceedsCapacity) {
		t.Errorf("expected capacity error to win, got %v", err)
	}
}

func TestValidateCreateRequiresOfferID(t *testing.T) {
	v := newTestValidator(t)

	err := v.ValidateCreate(&model.ReservationCreate{NumberOfGuests: 2})
	if err == nil {
		t.Fatal("expected validation error for missing offer_id")
	}

	var vErrs ValidationErrors
	if !errors.As(err, &vErrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
}

func TestValidateCreateRejectsZeroGuests(t *testing.T) {
	v := newTestValidator(t)

	err := v.ValidateCreate(&model.ReservationCreate{
		OfferID:        "64f1b2a3c4d5e6f7a8b9c0d1",
		NumberOfGuests: 0,
	})
	if err == nil {
		t.Fatal("expected validation error for zero guests")
	}
}

func TestValidateCreateAcceptsValidInput(t *testing.T) {
	v := newTestValidator(t)

	err := v.ValidateCreate(&model.ReservationCreate{
		OfferID:         "64f1b2a3c4d5e6f7a8b9c0d1",
		NumberOfGuests:  2,
		SpecialRequests: "vegetarian meals",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidatePaymentRejectsUnknownMethod(t *testing.T) {
	v := newTestValidator(t)

	err := v.ValidatePayment(&model.PaymentCreate{PaymentMethod: "crypto"})
	if err == nil {
		t.Fatal("expected validation error for unknown payment method")
	}
}
