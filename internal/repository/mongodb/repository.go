package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockflow/internal/domain/models"
)

// Repository defines the interface for the submission audit log.
type Repository interface {
	SaveSubmission(ctx context.Context, userID string, result models.SubmissionResult) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	now      func() time.Time
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri).SetRegistry(NewRegistry())
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
		collName: "transfer_submissions",
		now:      time.Now,
	}, nil
}

// SaveSubmission stores one audit record per submit attempt.
func (r *MongoDBRepository) SaveSubmission(ctx context.Context, userID string, result models.SubmissionResult) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.InsertOne(ctx, NewSubmissionRecord(userID, result, r.now()))
	if err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", result.ID, err)
	}
	return nil
}

// Record satisfies the transfers recorder contract.
func (r *MongoDBRepository) Record(ctx context.Context, userID string, result models.SubmissionResult) error {
	return r.SaveSubmission(ctx, userID, result)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// NewSubmissionRecord builds the stored document for a submit attempt.
func NewSubmissionRecord(userID string, result models.SubmissionResult, now time.Time) models.SubmissionRecord {
	return models.SubmissionRecord{
		UserID:    userID,
		Result:    result,
		CreatedAt: now.UTC(),
	}
}
