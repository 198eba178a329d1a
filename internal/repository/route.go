package repository

import (
	"context"
	"fmt"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RouteRepository handles document store operations for routes
type RouteRepository struct {
	coll *mongo.Collection
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *mongo.Database) *RouteRepository {
	coll := db.Collection(collRoutes)
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "route_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "active", Value: 1}}},
	}
	_, _ = coll.Indexes().CreateMany(context.Background(), idx)
	return &RouteRepository{coll: coll}
}

// Create inserts a new route
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) error {
	if _, err := r.coll.InsertOne(ctx, route); err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}

// GetByOwner retrieves a route only if it belongs to userID
func (r *RouteRepository) GetByOwner(ctx context.Context, routeID, userID string) (*models.Route, error) {
	var route models.Route
	err := r.coll.FindOne(ctx, bson.M{"route_id": routeID, "user_id": userID}).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return &route, nil
}

// ListByUser returns all routes owned by a user, bounded
func (r *RouteRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]*models.Route, error) {
	return r.list(ctx, bson.M{"user_id": userID}, limit)
}

// ListActiveByUser returns the user's active routes in stored order.
// Stored order is what makes the match engine's first-seen-wins
// deduplication deterministic.
func (r *RouteRepository) ListActiveByUser(ctx context.Context, userID string, limit int64) ([]*models.Route, error) {
	return r.list(ctx, bson.M{"user_id": userID, "active": true}, limit)
}

// ListActiveExcluding returns active routes owned by anyone except userID
func (r *RouteRepository) ListActiveExcluding(ctx context.Context, userID string, limit int64) ([]*models.Route, error) {
	return r.list(ctx, bson.M{"user_id": bson.M{"$ne": userID}, "active": true}, limit)
}

func (r *RouteRepository) list(ctx context.Context, filter bson.M, limit int64) ([]*models.Route, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer cur.Close(ctx)

	var routes []*models.Route
	for cur.Next(ctx) {
		var route models.Route
		if err := cur.Decode(&route); err != nil {
			return nil, fmt.Errorf("failed to decode route: %w", err)
		}
		routes = append(routes, &route)
	}
	return routes, cur.Err()
}

// Update replaces the mutable fields of a route
func (r *RouteRepository) Update(ctx context.Context, route *models.Route) error {
	update := bson.M{"$set": bson.M{
		"start_coords":   route.StartCoords,
		"end_coords":     route.EndCoords,
		"start_address":  route.StartAddress,
		"end_address":    route.EndAddress,
		"departure_time": route.DepartureTime,
		"days_of_week":   route.DaysOfWeek,
		"active":         route.Active,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"route_id": route.RouteID}, update)
	if err != nil {
		return fmt.Errorf("failed to update route: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByOwner deletes a route only if it belongs to userID
func (r *RouteRepository) DeleteByOwner(ctx context.Context, routeID, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"route_id": routeID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
