package repository

import (
	"context"
	"fmt"
	"time"

	reservationserrors "voyago/internal/reservations/errors"
	"voyago/pkg/config"
	"voyago/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PaymentCollectionName = "Payments"
)

type mongoPaymentRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByReservation(ctx context.Context, reservationID string) ([]*model.Payment, error)
	HasCompleted(ctx context.Context, reservationID string) (bool, error)
	Complete(ctx context.Context, id string, at time.Time) error
	Refund(ctx context.Context, id string, amount float64, reason string, at time.Time) error
}

func NewMongoPaymentRepository(cfg *config.Config) PaymentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPaymentRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(PaymentCollectionName),
	}
}

func (r *mongoPaymentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	payment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPaymentRepository) FindByReservation(ctx context.Context, reservationID string) ([]*model.Payment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"reservation_id": reservationID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*model.Payment
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}

	return payments, nil
}

func (r *mongoPaymentRepository) HasCompleted(ctx context.Context, reservationID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"reservation_id": reservationID,
		"status":         model.PaymentCompleted,
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count completed payments: %w", err)
	}

	return count > 0, nil
}

func (r *mongoPaymentRepository) Complete(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrPaymentNotFound, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": model.PaymentPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       model.PaymentCompleted,
			"payment_date": at,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete payment: %w", err)
	}

	if result.MatchedCount == 0 {
		return reservationserrors.ErrPaymentNotFound
	}

	return nil
}

func (r *mongoPaymentRepository) Refund(ctx context.Context, id string, amount float64, reason string, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrPaymentNotFound, id)
	}

	// Only completed payments can move to refunded.
	filter := bson.M{
		"_id":    objectID,
		"status": model.PaymentCompleted,
	}
	update := bson.M{
		"$set": bson.M{
			"status":        model.PaymentRefunded,
			"refund_amount": amount,
			"refund_reason": reason,
			"refund_date":   at,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to refund payment: %w", err)
	}

	if result.MatchedCount == 0 {
		return reservationserrors.ErrPaymentNotFound
	}

	return nil
}
