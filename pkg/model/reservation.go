package model

import "time"

// ReservationStatus is the closed set of reservation states.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// validReservationNext encodes the reservation state machine. A payment
// confirms a pending reservation; a client cancellation is allowed from
// pending or confirmed; cancelled and completed are terminal. The
// completed state is only ever set outside this engine (by time passage),
// so no transition here targets it from code paths we own.
var validReservationNext = map[ReservationStatus]map[ReservationStatus]bool{
	ReservationPending:   {ReservationConfirmed: true, ReservationCancelled: true},
	ReservationConfirmed: {ReservationCancelled: true, ReservationCompleted: true},
	ReservationCancelled: {},
	ReservationCompleted: {},
}

func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	return validReservationNext[s][to]
}

func (s ReservationStatus) Valid() bool {
	_, ok := validReservationNext[s]
	return ok
}

// Reservation is a client's claim against an offer's inventory. The total
// amount is computed once at creation and never recomputed afterwards.
type Reservation struct {
	ID                 string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ClientID           string            `json:"client_id" bson:"client_id" validate:"required"`
	OfferID            string            `json:"offer_id" bson:"offer_id" validate:"required,mongodb"`
	NumberOfGuests     int               `json:"number_of_guests" bson:"number_of_guests" validate:"required,min=1"`
	TotalAmount        float64           `json:"total_amount" bson:"total_amount"`
	Currency           string            `json:"currency" bson:"currency"`
	Status             ReservationStatus `json:"status" bson:"status"`
	ReservationDate    time.Time         `json:"reservation_date" bson:"reservation_date"`
	DepartureDate      *time.Time        `json:"departure_date,omitempty" bson:"departure_date,omitempty"`
	ReturnDate         *time.Time        `json:"return_date,omitempty" bson:"return_date,omitempty"`
	SpecialRequests    string            `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	// SeatsReserved records whether creation decremented the offer's
	// seat count. Cancellation releases seats only when it did, so
	// offers with untracked inventory never gain phantom seats.
	SeatsReserved      bool              `json:"-" bson:"seats_reserved"`
	CancellationReason string            `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at" bson:"created_at"`
}

// ReservationCreate is the request body for placing a reservation.
type ReservationCreate struct {
	OfferID         string     `json:"offer_id" validate:"required,mongodb"`
	NumberOfGuests  int        `json:"number_of_guests" validate:"required,min=1,max=50"`
	DepartureDate   *time.Time `json:"departure_date,omitempty"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	SpecialRequests string     `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

// ReservationCancel is the request body for cancelling a reservation.
type ReservationCancel struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
