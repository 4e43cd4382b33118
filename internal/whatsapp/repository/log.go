package repository

import (
	"context"
	"fmt"
	"time"

	"voyago/pkg/config"
	"voyago/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "WhatsAppLogs"
)

type mongoWhatsAppLogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type WhatsAppLogRepository interface {
	Create(ctx context.Context, log *model.WhatsAppLog) error
}

func NewMongoWhatsAppLogRepository(cfg *config.Config) WhatsAppLogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWhatsAppLogRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoWhatsAppLogRepository) Create(ctx context.Context, log *model.WhatsAppLog) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	log.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to create whatsapp log: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid.Hex()
	}
	return nil
}
