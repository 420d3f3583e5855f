package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB dials MongoDB and verifies the connection with a ping. The client
// is created here and handed to the caller; this package keeps no global
// connection state.
func ConnectDB(ctx context.Context, uri string, log *zap.Logger) (*mongo.Client, error) {
	log.Info("connecting to MongoDB")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Info("connected to MongoDB")
	return client, nil
}
