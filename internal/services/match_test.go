package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouteStore struct {
	routes []*models.Route
}

func (f *fakeRouteStore) ListActiveByUser(_ context.Context, userID string, limit int64) ([]*models.Route, error) {
	var out []*models.Route
	for _, r := range f.routes {
		if r.UserID == userID && r.Active && int64(len(out)) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRouteStore) ListActiveExcluding(_ context.Context, userID string, limit int64) ([]*models.Route, error) {
	var out []*models.Route
	for _, r := range f.routes {
		if r.UserID != userID && r.Active && int64(len(out)) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetManyByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func testUser(id, name string) *models.User {
	return &models.User{UserID: id, Name: name, BlockedUsers: []string{}}
}

func commuteRoute(id, ownerID string, lat float64, departure string, days ...string) *models.Route {
	return &models.Route{
		RouteID:       id,
		UserID:        ownerID,
		StartCoords:   models.Coordinates{Lat: lat, Lng: -74.0},
		EndCoords:     models.Coordinates{Lat: lat + 0.1, Lng: -73.8},
		DepartureTime: departure,
		DaysOfWeek:    days,
		Active:        true,
	}
}

func TestDiscoverEmptyOwnRoutes(t *testing.T) {
	svc := NewMatchService(&fakeRouteStore{}, &fakeUserStore{})

	matches, err := svc.Discover(context.Background(), testUser("user_a", "A"))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.NotNil(t, matches)
}

func TestDiscoverNoCandidates(t *testing.T) {
	routes := &fakeRouteStore{routes: []*models.Route{
		commuteRoute("route_1", "user_a", 40.7, "08:30", "monday"),
	}}
	svc := NewMatchService(routes, &fakeUserStore{})

	matches, err := svc.Discover(context.Background(), testUser("user_a", "A"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDiscoverFindsCompatibleCommuter(t *testing.T) {
	routes := &fakeRouteStore{routes: []*models.Route{
		commuteRoute("route_1", "user_a", 40.7, "08:30", "monday", "tuesday", "wednesday", "thursday", "friday"),
		commuteRoute("route_2", "user_b", 40.705, "08:45", "monday", "wednesday", "friday"),
	}}
	users := &fakeUserStore{users: map[string]*models.User{
		"user_b": testUser("user_b", "B"),
	}}
	svc := NewMatchService(routes, users)

	matches, err := svc.Discover(context.Background(), testUser("user_a", "A"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "user_b", m.UserID)
	assert.Equal(t, "B", m.Name)
	assert.Greater(t, m.RouteMatchScore, 30.0)
	assert.LessOrEqual(t, m.RouteMatchScore, 100.0)
	assert.Less(t, m.DistanceToStart, 5.0)
	assert.Less(t, m.DistanceToEnd, 5.0)
}

func TestDiscoverRejectsIncompatibleRoutes(t *testing.T) {
	routes := &fakeRouteStore{routes: []*models.Route{
		commuteRoute("route_1", "user_a", 40.7, "08:30", "monday"),
		// Too far away.
		commuteRoute("route_2", "user_b", 41.7, "08:30", "monday"),
		// Too late.
		commuteRoute("route_3", "user_c", 40.7, "09:30", "monday"),
		// No common day.
		commuteRoute("route_4", "user_d", 40.7, "08:30", "sunday"),
	}}
	users := &fakeUserStore{users: map[string]*models.User{
		"user_b": testUser("user_b", "B"),
		"user_c": testUser("user_c", "C"),
		"user_d": testUser("user_d", "D"),
	}}
	svc := NewMatchService(routes, users)

	matches, err := svc.Discover(context.Background(), testUser("user_a", "A"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDiscoverDeduplicatesByUser(t *testing.T) {
	// Two own routes each match both of B's routes; B appears once.
	routes := &fakeRouteStore{routes: []*models.Route{
		commuteRoute("route_1", "user_a", 40.7, "08:30", "monday"),
		commuteRoute("route_2", "user_a", 40.7, "08:35", "monday"),
		commuteRoute("route_3", "user_b", 40.7, "08:30", "monday"),
		commuteRoute("route_4", "user_b", 40.7, "08:35", "monday"),
	}}
	users := &fakeUserStore{users: map[string]*models.User{
		"user_b": testUser("user_b", "B"),
	}}
	svc := NewMatchService(routes, users)

	matches, err := svc.Discover(context.Background(), testUser("user_a", "A"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	// First-seen pair wins: own route_1 against stored-first route_3,
	// which is an exact match.
	assert.Equal(t, 100.0, matches[0].RouteMatchScore)
}

func TestDiscoverSkipsBlockedUsers(t *testing.T) {
	routes := &fakeRouteStore{routes: []*models.Route{
		commuteRoute("route_1", "user_a", 40.7, "08:30", "monday"),
		commuteRoute("route_2", "user_b", 40.7, "08:30", "monday"),
		commuteRoute("route_3", "user_c", 40.7, "08:30", "monday"),
	}}
	users := &fakeUserStore{users: map[string]*models.User{
		"user_b": testUser("user_b", "B"),
		"user_c": {UserID: "user_c", Name: "C", BlockedUsers: []string{"user_a"}},
	}}
	svc := NewMatchService(routes, users)

	// A blocked B; C blocked A. Neither may surface.
	requester := &models.User{UserID: "user_a", Name: "A", BlockedUsers: []string{"user_b"}}

	matches, err := svc.Discover(context.Background(), requester)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDiscoverSortsByScoreDescending(t *testing.T) {
	routes := &fakeRouteStore{routes: []*models.Route{
		commuteRoute("route_1", "user_a", 40.7, "08:30", "monday"),
		// Further start, lower score.
		commuteRoute("route_2", "user_b", 40.72, "08:30", "monday"),
		// Exact match, top score.
		commuteRoute("route_3", "user_c", 40.7, "08:30", "monday"),
	}}
	users := &fakeUserStore{users: map[string]*models.User{
		"user_b": testUser("user_b", "B"),
		"user_c": testUser("user_c", "C"),
	}}
	svc := NewMatchService(routes, users)

	matches, err := svc.Discover(context.Background(), testUser("user_a", "A"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "user_c", matches[0].UserID)
	assert.Equal(t, "user_b", matches[1].UserID)
	assert.GreaterOrEqual(t, matches[0].RouteMatchScore, matches[1].RouteMatchScore)
}

func TestDiscoverCapsAtFifty(t *testing.T) {
	store := &fakeRouteStore{routes: []*models.Route{
		commuteRoute("route_own", "user_a", 40.7, "08:30", "monday"),
	}}
	users := &fakeUserStore{users: map[string]*models.User{}}

	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("user_%03d", i)
		store.routes = append(store.routes, commuteRoute(fmt.Sprintf("route_%03d", i), id, 40.7, "08:30", "monday"))
		users.users[id] = testUser(id, id)
	}

	svc := NewMatchService(store, users)

	matches, err := svc.Discover(context.Background(), testUser("user_a", "A"))
	require.NoError(t, err)
	assert.Len(t, matches, 50)
}
