package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongo connects to MongoDB and pings the primary.
func NewMongo(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, DatabasePingTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetAppName(config.ServiceName).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().
		Str("database", cfg.Mongo.Database).
		Str("collection", cfg.Mongo.Collection).
		Msg("connected to mongo")

	return client, nil
}
