package model

import "time"

// PaymentStatus is the closed set of payment states. The simulated
// settlement path never reaches failed, but the state is kept so a real
// gateway can be swapped in without a schema change.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var validPaymentNext = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentPending:   {PaymentCompleted: true, PaymentFailed: true},
	PaymentCompleted: {PaymentRefunded: true},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	return validPaymentNext[s][to]
}

// PaymentMethod is the accepted settlement channel for a payment.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// Payment is a settlement attempt against a reservation's total.
type Payment struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty"`
	ReservationID string        `json:"reservation_id" bson:"reservation_id"`
	Amount        float64       `json:"amount" bson:"amount"`
	Currency      string        `json:"currency" bson:"currency"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
	Status        PaymentStatus `json:"status" bson:"status"`
	TransactionID string        `json:"transaction_id" bson:"transaction_id"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty" bson:"payment_date,omitempty"`
	RefundAmount  float64       `json:"refund_amount,omitempty" bson:"refund_amount,omitempty"`
	RefundDate    *time.Time    `json:"refund_date,omitempty" bson:"refund_date,omitempty"`
	RefundReason  string        `json:"refund_reason,omitempty" bson:"refund_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

// PaymentCreate is the request body for settling a reservation. A
// transaction ID may be supplied by the caller; one is generated when
// absent.
type PaymentCreate struct {
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=card mobile_money bank_transfer cash"`
	TransactionID string        `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
}
