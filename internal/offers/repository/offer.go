package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	offerserrors "voyago/internal/offers/errors"
	"voyago/pkg/config"
	"voyago/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Offers"
)

type mongoOfferRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type OfferRepository interface {
	FindByID(ctx context.Context, id string) (*model.Offer, error)
	// ReserveSeats atomically takes guests seats on the offer and bumps
	// its bookings count. Offers with available_seats == 0 are treated
	// as unlimited and only get the bookings count bump. The returned
	// bool reports whether seats were actually decremented, so the
	// caller knows whether a later release must put them back.
	ReserveSeats(ctx context.Context, id string, guests int) (bool, error)
	// ReleaseSeats returns guests seats to the offer. The bookings
	// count is a lifetime total and is never decremented.
	ReleaseSeats(ctx context.Context, id string, guests int) error
}

func NewMongoOfferRepository(cfg *config.Config) OfferRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOfferRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoOfferRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoOfferRepository) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", offerserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var offer model.Offer
	err = r.collection.FindOne(ctx, filter).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, offerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}

	return &offer, nil
}

func (r *mongoOfferRepository) ReserveSeats(ctx context.Context, id string, guests int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", offerserrors.ErrInvalidID, id)
	}

	// Finite-inventory branch. The filter keeps available_seats from
	// going below zero under concurrent reservations.
	finiteFilter := bson.M{
		"_id":             objectID,
		"available_seats": bson.M{"$gte": guests, "$gt": 0},
	}
	finiteUpdate := bson.M{
		"$inc": bson.M{
			"available_seats": -guests,
			"bookings_count":  1,
		},
	}

	result, err := r.collection.UpdateOne(ctx, finiteFilter, finiteUpdate)
	if err != nil {
		return false, fmt.Errorf("failed to reserve seats: %w", err)
	}
	if result.ModifiedCount == 1 {
		return true, nil
	}

	// Unlimited branch: available_seats == 0 means no seat tracking,
	// only the bookings count moves.
	unlimitedFilter := bson.M{
		"_id":             objectID,
		"available_seats": 0,
	}
	unlimitedUpdate := bson.M{
		"$inc": bson.M{"bookings_count": 1},
	}

	result, err = r.collection.UpdateOne(ctx, unlimitedFilter, unlimitedUpdate)
	if err != nil {
		return false, fmt.Errorf("failed to reserve seats: %w", err)
	}
	if result.ModifiedCount == 1 {
		return false, nil
	}

	// Neither branch matched: the offer is gone or a concurrent
	// reservation took the remaining seats.
	exists, err := r.exists(ctx, objectID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, offerserrors.ErrNotFound
	}
	return false, offerserrors.ErrInsufficientSeats
}

func (r *mongoOfferRepository) ReleaseSeats(ctx context.Context, id string, guests int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", offerserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$inc": bson.M{"available_seats": guests},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return offerserrors.ErrNotFound
	}

	return nil
}

func (r *mongoOfferRepository) exists(ctx context.Context, objectID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return false, fmt.Errorf("failed to check offer existence: %w", err)
	}
	return count > 0, nil
}
