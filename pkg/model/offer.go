package model

import "time"

// Offer is a sellable travel product. The catalog side owns most of these
// fields; the reservation engine only reads them and mutates the two
// inventory counters (available_seats, bookings_count) through the offer
// repository's atomic operations.
type Offer struct {
	ID                string     `json:"id,omitempty" bson:"_id,omitempty"`
	Title             string     `json:"title" bson:"title"`
	Destination       string     `json:"destination" bson:"destination"`
	Price             float64    `json:"price" bson:"price"`
	Currency          string     `json:"currency" bson:"currency"`
	Duration          int        `json:"duration" bson:"duration"`
	IsActive          bool       `json:"is_active" bson:"is_active"`
	IsPromotion       bool       `json:"is_promotion" bson:"is_promotion"`
	PromotionDiscount float64    `json:"promotion_discount,omitempty" bson:"promotion_discount,omitempty"`
	PromotionEndsAt   *time.Time `json:"promotion_ends_at,omitempty" bson:"promotion_ends_at,omitempty"`
	AvailableSeats    int        `json:"available_seats" bson:"available_seats"`
	MaxCapacity       int        `json:"max_capacity,omitempty" bson:"max_capacity,omitempty"`
	BookingsCount     int        `json:"bookings_count" bson:"bookings_count"`
	DepartureDate     *time.Time `json:"departure_date,omitempty" bson:"departure_date,omitempty"`
	ReturnDate        *time.Time `json:"return_date,omitempty" bson:"return_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" bson:"updated_at"`
}
