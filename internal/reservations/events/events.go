package events

import (
	"context"
	"time"

	"voyago/pkg/kafka"
	"voyago/pkg/logger"
	"voyago/pkg/model"
)

const (
	Topic = "reservation-events"

	EventReservationCreated   = "reservation.created"
	EventPaymentCompleted     = "payment.completed"
	EventReservationCancelled = "reservation.cancelled"

	schemaVersion = "1"
	source        = "reservations-service"
)

// Publisher emits reservation lifecycle events for downstream consumers.
// Publishing happens after the owning transaction commits and is best
// effort: failures are logged, never surfaced to the client.
type Publisher interface {
	ReservationCreated(ctx context.Context, reservation *model.Reservation)
	PaymentCompleted(ctx context.Context, reservation *model.Reservation, payment *model.Payment)
	ReservationCancelled(ctx context.Context, reservation *model.Reservation, refunded bool)
}

type ReservationCreatedEvent struct {
	ReservationID  string    `json:"reservation_id"`
	ClientID       string    `json:"client_id"`
	OfferID        string    `json:"offer_id"`
	NumberOfGuests int       `json:"number_of_guests"`
	TotalAmount    float64   `json:"total_amount"`
	Currency       string    `json:"currency"`
	CreatedAt      time.Time `json:"created_at"`
}

type PaymentCompletedEvent struct {
	ReservationID string  `json:"reservation_id"`
	PaymentID     string  `json:"payment_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

type ReservationCancelledEvent struct {
	ReservationID string `json:"reservation_id"`
	ClientID      string `json:"client_id"`
	OfferID       string `json:"offer_id"`
	Reason        string `json:"reason,omitempty"`
	Refunded      bool   `json:"refunded"`
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) ReservationCreated(ctx context.Context, reservation *model.Reservation) {
	p.publish(ctx, EventReservationCreated, reservation.ID, ReservationCreatedEvent{
		ReservationID:  reservation.ID,
		ClientID:       reservation.ClientID,
		OfferID:        reservation.OfferID,
		NumberOfGuests: reservation.NumberOfGuests,
		TotalAmount:    reservation.TotalAmount,
		Currency:       reservation.Currency,
		CreatedAt:      reservation.CreatedAt,
	})
}

func (p *kafkaPublisher) PaymentCompleted(ctx context.Context, reservation *model.Reservation, payment *model.Payment) {
	p.publish(ctx, EventPaymentCompleted, reservation.ID, PaymentCompletedEvent{
		ReservationID: reservation.ID,
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
	})
}

func (p *kafkaPublisher) ReservationCancelled(ctx context.Context, reservation *model.Reservation, refunded bool) {
	p.publish(ctx, EventReservationCancelled, reservation.ID, ReservationCancelledEvent{
		ReservationID: reservation.ID,
		ClientID:      reservation.ClientID,
		OfferID:       reservation.OfferID,
		Reason:        reservation.CancellationReason,
		Refunded:      refunded,
	})
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			"event_type", eventType,
			"reservation_id", key,
			"error", err,
		)
	}
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event. Used when
// Kafka is not configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) ReservationCreated(context.Context, *model.Reservation)                  {}
func (noopPublisher) PaymentCompleted(context.Context, *model.Reservation, *model.Payment)   {}
func (noopPublisher) ReservationCancelled(context.Context, *model.Reservation, bool)         {}
