package model

import "time"

// NotificationType tags a notification with the event that produced it.
type NotificationType string

const (
	NotificationReservationCreated   NotificationType = "reservation_created"
	NotificationPaymentCompleted     NotificationType = "payment_completed"
	NotificationReservationReminder  NotificationType = "reservation_reminder"
	NotificationPaymentReminder      NotificationType = "payment_reminder"
	NotificationReservationCancelled NotificationType = "reservation_cancelled"
	NotificationGeneral              NotificationType = "general"
	NotificationPromotion            NotificationType = "promotion"
)

// Notification is a per-client message produced by the reservation
// lifecycle or the reminder sweeps. Only the read state is ever mutated,
// and only by the owning client.
type Notification struct {
	ID            string           `json:"id,omitempty" bson:"_id,omitempty"`
	ClientID      string           `json:"client_id" bson:"client_id"`
	ReservationID string           `json:"reservation_id,omitempty" bson:"reservation_id,omitempty"`
	Type          NotificationType `json:"type" bson:"type"`
	Title         string           `json:"title" bson:"title"`
	Message       string           `json:"message" bson:"message"`
	IsRead        bool             `json:"is_read" bson:"is_read"`
	ReadAt        *time.Time       `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
}
