package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/farmacia/internal/repository"
)

// sessionEntry is one persisted key of one console profile.
type sessionEntry struct {
	Profile string `bson:"profile"`
	Key     string `bson:"key"`
	Value   string `bson:"value"`
}

// MongoDBRepository implements repository.Store with one document per key.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	profile  string
}

// NewMongoDBRepository creates a new MongoDB-backed session store.
func NewMongoDBRepository(ctx context.Context, uri, dbName, profile string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "console_sessions",
		profile:  profile,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

func (r *MongoDBRepository) filter(key string) bson.M {
	return bson.M{"profile": r.profile, "key": key}
}

// Get returns the value for key or repository.ErrNotFound.
func (r *MongoDBRepository) Get(ctx context.Context, key string) (string, error) {
	var entry sessionEntry
	err := r.collection().FindOne(ctx, r.filter(key)).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find session entry %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set upserts the value under key.
func (r *MongoDBRepository) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": sessionEntry{Profile: r.profile, Key: key, Value: value}}
	_, err := r.collection().UpdateOne(ctx, r.filter(key), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert session entry %s: %w", key, err)
	}
	return nil
}

// Delete removes keys; missing keys are ignored.
func (r *MongoDBRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	filter := bson.M{"profile": r.profile, "key": bson.M{"$in": keys}}
	if _, err := r.collection().DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete session entries: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
