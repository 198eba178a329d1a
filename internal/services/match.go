package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Jatin546/routebuddy-mobile-app/internal/match"
	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
)

const (
	maxOwnRoutes       = 100
	maxCandidateRoutes = 1000
	maxMatches         = 50
)

type matchRouteStore interface {
	ListActiveByUser(ctx context.Context, userID string, limit int64) ([]*models.Route, error)
	ListActiveExcluding(ctx context.Context, userID string, limit int64) ([]*models.Route, error)
}

type matchUserStore interface {
	GetManyByIDs(ctx context.Context, userIDs []string) ([]*models.User, error)
}

// MatchService runs the route-matching engine. It is stateless: every
// discovery call recomputes from persisted routes.
type MatchService struct {
	routes matchRouteStore
	users  matchUserStore
}

// NewMatchService creates a new match service
func NewMatchService(routes matchRouteStore, users matchUserStore) *MatchService {
	return &MatchService{routes: routes, users: users}
}

// Discover produces the ranked match list for a user. Routes are iterated
// in stored order, so the first qualifying pair for a candidate wins.
func (s *MatchService) Discover(ctx context.Context, user *models.User) ([]models.MatchedUser, error) {
	ownRoutes, err := s.routes.ListActiveByUser(ctx, user.UserID, maxOwnRoutes)
	if err != nil {
		return nil, fmt.Errorf("failed to load own routes: %w", err)
	}
	if len(ownRoutes) == 0 {
		return []models.MatchedUser{}, nil
	}

	otherRoutes, err := s.routes.ListActiveExcluding(ctx, user.UserID, maxCandidateRoutes)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate routes: %w", err)
	}

	blocked := make(map[string]struct{}, len(user.BlockedUsers))
	for _, id := range user.BlockedUsers {
		blocked[id] = struct{}{}
	}

	// First qualifying route pair per candidate wins.
	type candidate struct {
		userID string
		score  *match.RouteScore
	}
	seen := make(map[string]struct{})
	var candidates []candidate

	for _, own := range ownRoutes {
		for _, other := range otherRoutes {
			if _, dup := seen[other.UserID]; dup {
				continue
			}
			if _, b := blocked[other.UserID]; b {
				continue
			}

			score := match.Score(own, other)
			if score == nil || score.Score <= match.MinScore {
				continue
			}

			candidates = append(candidates, candidate{userID: other.UserID, score: score})
			seen[other.UserID] = struct{}{}
		}
	}

	if len(candidates) == 0 {
		return []models.MatchedUser{}, nil
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.userID
	}
	users, err := s.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load matched users: %w", err)
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	matches := make([]models.MatchedUser, 0, len(candidates))
	for _, c := range candidates {
		other, ok := byID[c.userID]
		if !ok {
			continue
		}
		// Re-check the block symmetrically against the freshly read
		// candidate, in case the blocked state went stale mid-scan.
		if contains(other.BlockedUsers, user.UserID) {
			continue
		}

		matches = append(matches, models.MatchedUser{
			UserID:          other.UserID,
			Name:            other.Name,
			Picture:         other.Picture,
			Bio:             other.Bio,
			Verified:        other.Verified,
			RouteMatchScore: match.Round1(c.score.Score),
			DistanceToStart: match.Round2(c.score.StartDistance),
			DistanceToEnd:   match.Round2(c.score.EndDistance),
		})
	}

	// Stable keeps insertion order among equal scores, so ties resolve
	// deterministically by first-seen order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RouteMatchScore > matches[j].RouteMatchScore
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
