package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jatin546/routebuddy-mobile-app/internal/match"
	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/repository"
)

const maxRoutesPerList = 100

type routeStore interface {
	Create(ctx context.Context, route *models.Route) error
	GetByOwner(ctx context.Context, routeID, userID string) (*models.Route, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]*models.Route, error)
	Update(ctx context.Context, route *models.Route) error
	DeleteByOwner(ctx context.Context, routeID, userID string) error
}

// RouteService handles commute route CRUD. Every operation is scoped to
// the owning user; another user's route behaves as nonexistent.
type RouteService struct {
	routes routeStore
}

// NewRouteService creates a new route service
func NewRouteService(routes routeStore) *RouteService {
	return &RouteService{routes: routes}
}

// RouteInput is the payload for creating or updating a route.
type RouteInput struct {
	StartCoords   models.Coordinates `json:"start_coords"`
	EndCoords     models.Coordinates `json:"end_coords"`
	StartAddress  string             `json:"start_address"`
	EndAddress    string             `json:"end_address"`
	DepartureTime string             `json:"departure_time"`
	DaysOfWeek    []string           `json:"days_of_week"`
}

func (in *RouteInput) validate() error {
	if _, err := match.ParseClock(in.DepartureTime); err != nil {
		return fmt.Errorf("%w: departure_time must be HH:MM", ErrValidation)
	}
	return nil
}

// Create creates a new active route for the user
func (s *RouteService) Create(ctx context.Context, userID string, in RouteInput) (*models.Route, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	route := &models.Route{
		RouteID:       models.NewID("route"),
		UserID:        userID,
		StartCoords:   in.StartCoords,
		EndCoords:     in.EndCoords,
		StartAddress:  in.StartAddress,
		EndAddress:    in.EndAddress,
		DepartureTime: in.DepartureTime,
		DaysOfWeek:    in.DaysOfWeek,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.routes.Create(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// ListOwn returns the user's routes, bounded
func (s *RouteService) ListOwn(ctx context.Context, userID string) ([]*models.Route, error) {
	routes, err := s.routes.ListByUser(ctx, userID, maxRoutesPerList)
	if err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []*models.Route{}
	}
	return routes, nil
}

// Update replaces the fields of a route the user owns
func (s *RouteService) Update(ctx context.Context, userID, routeID string, in RouteInput) (*models.Route, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	route, err := s.routes.GetByOwner(ctx, routeID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	route.StartCoords = in.StartCoords
	route.EndCoords = in.EndCoords
	route.StartAddress = in.StartAddress
	route.EndAddress = in.EndAddress
	route.DepartureTime = in.DepartureTime
	route.DaysOfWeek = in.DaysOfWeek

	if err := s.routes.Update(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// Delete removes a route the user owns
func (s *RouteService) Delete(ctx context.Context, userID, routeID string) error {
	err := s.routes.DeleteByOwner(ctx, routeID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
