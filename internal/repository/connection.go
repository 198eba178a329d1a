package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicatePair is returned when a connection already exists between a
// pair of users, in either direction.
var ErrDuplicatePair = errors.New("connection already exists")

// ConnectionRepository handles document store operations for connections
type ConnectionRepository struct {
	coll *mongo.Collection
}

// NewConnectionRepository creates a new connection repository. The unique
// index on pair_key closes the check-then-insert race between two
// simultaneous requests for the same pair.
func NewConnectionRepository(db *mongo.Database) *ConnectionRepository {
	coll := db.Collection(collConnections)
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "connection_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "pair_key", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, _ = coll.Indexes().CreateMany(context.Background(), idx)
	return &ConnectionRepository{coll: coll}
}

// PairKey returns the normalized key for an unordered user pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Create inserts a new connection. Returns ErrDuplicatePair if any record
// for the pair already exists, whatever its status.
func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if _, err := r.coll.InsertOne(ctx, conn); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicatePair
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

// GetByID retrieves a connection by id
func (r *ConnectionRepository) GetByID(ctx context.Context, connectionID string) (*models.Connection, error) {
	var conn models.Connection
	err := r.coll.FindOne(ctx, bson.M{"connection_id": connectionID}).Decode(&conn)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &conn, nil
}

// PairExists reports whether any connection record exists for the pair
func (r *ConnectionRepository) PairExists(ctx context.Context, userA, userB string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"pair_key": PairKey(userA, userB)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check pair: %w", err)
	}
	return true, nil
}

// UpdateStatus sets the status of a connection
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, connectionID, status string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"connection_id": connectionID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update connection: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns all connections involving a user, optionally filtered
// by status
func (r *ConnectionRepository) ListByUser(ctx context.Context, userID, status string, limit int64) ([]*models.Connection, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"user1_id": userID},
		bson.M{"user2_id": userID},
	}}
	if status != "" {
		filter["status"] = status
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer cur.Close(ctx)

	var conns []*models.Connection
	for cur.Next(ctx) {
		var conn models.Connection
		if err := cur.Decode(&conn); err != nil {
			return nil, fmt.Errorf("failed to decode connection: %w", err)
		}
		conns = append(conns, &conn)
	}
	return conns, cur.Err()
}
