package model

import "time"

// WhatsAppLog records an outbound inquiry link generated for an offer.
type WhatsAppLog struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	OfferID       string    `json:"offer_id" bson:"offer_id"`
	CustomerPhone string    `json:"customer_phone,omitempty" bson:"customer_phone,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	Message       string    `json:"message" bson:"message"`
	Type          string    `json:"type" bson:"type"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
