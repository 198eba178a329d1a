package repository

import (
	"context"
	"fmt"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository handles document store operations for sessions
type SessionRepository struct {
	coll *mongo.Collection
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *mongo.Database) *SessionRepository {
	coll := db.Collection(collSessions)
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "session_token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), idx)
	return &SessionRepository{coll: coll}
}

// Create stores a session, replacing any existing session with the same
// token. The provider hands out the same token for repeated exchanges of
// one external session, so a re-exchange refreshes the expiry instead of
// tripping the unique index.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	filter := bson.M{"session_token": session.SessionToken}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, session, opts); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetByToken retrieves a session by its token
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"session_token": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteByToken removes a session. Deleting a non-existent session is not
// an error, which makes logout idempotent.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"session_token": token}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
