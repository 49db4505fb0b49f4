package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const databaseName = "musicplaylist"

// Connect dials MongoDB and verifies the connection with a ping. The client
// is shared process-wide and safe for concurrent use.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(30 * time.Second).
		SetConnectTimeout(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Info().Msg("connected to MongoDB")
	return client, nil
}

// OpenCollection returns a handle on the named collection of the service
// database.
func OpenCollection(client *mongo.Client, name string) *mongo.Collection {
	return client.Database(databaseName).Collection(name)
}
