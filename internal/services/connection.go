package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/repository"
)

const maxConnectionList = 1000

type connectionStore interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, connectionID string) (*models.Connection, error)
	PairExists(ctx context.Context, userA, userB string) (bool, error)
	UpdateStatus(ctx context.Context, connectionID, status string) error
	ListByUser(ctx context.Context, userID, status string, limit int64) ([]*models.Connection, error)
}

type connectionUserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetManyByIDs(ctx context.Context, userIDs []string) ([]*models.User, error)
}

// ConnectionService drives the connection handshake: pending until the
// receiving party accepts or rejects, both terminal. A rejected
// connection keeps blocking re-requests for the pair; that is a known
// limitation of the uniqueness rule, not an accident.
type ConnectionService struct {
	connections connectionStore
	users       connectionUserStore
}

// NewConnectionService creates a new connection service
func NewConnectionService(connections connectionStore, users connectionUserStore) *ConnectionService {
	return &ConnectionService{connections: connections, users: users}
}

// Request sends a connection request from requester to targetID
func (s *ConnectionService) Request(ctx context.Context, requester *models.User, targetID string) (*models.Connection, error) {
	if targetID == "" {
		return nil, fmt.Errorf("%w: target_user_id is required", ErrValidation)
	}
	if targetID == requester.UserID {
		return nil, fmt.Errorf("%w: cannot connect to yourself", ErrValidation)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load target user: %w", err)
	}

	// Blocks are consulted in both directions before a request is
	// allowed; a blocked target looks like a missing one.
	if contains(requester.BlockedUsers, targetID) || contains(target.BlockedUsers, requester.UserID) {
		return nil, ErrNotFound
	}

	exists, err := s.connections.PairExists(ctx, requester.UserID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: connection already exists", ErrConflict)
	}

	conn := &models.Connection{
		ConnectionID: models.NewID("conn"),
		User1ID:      requester.UserID,
		User2ID:      targetID,
		PairKey:      repository.PairKey(requester.UserID, targetID),
		Status:       models.ConnectionPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		if errors.Is(err, repository.ErrDuplicatePair) {
			return nil, fmt.Errorf("%w: connection already exists", ErrConflict)
		}
		return nil, err
	}
	return conn, nil
}

// Respond lets the non-requesting party accept or reject a pending
// request.
func (s *ConnectionService) Respond(ctx context.Context, userID, connectionID, action string) (*models.Connection, error) {
	var status string
	switch action {
	case "accept":
		status = models.ConnectionAccepted
	case "reject":
		status = models.ConnectionRejected
	default:
		return nil, fmt.Errorf("%w: action must be accept or reject", ErrValidation)
	}

	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The requester cannot respond; a non-party sees nothing.
	if conn.User2ID != userID {
		return nil, ErrNotFound
	}
	if conn.Status != models.ConnectionPending {
		return nil, fmt.Errorf("%w: connection already %s", ErrConflict, conn.Status)
	}

	if err := s.connections.UpdateStatus(ctx, connectionID, status); err != nil {
		return nil, err
	}
	conn.Status = status
	return conn, nil
}

// EnrichedConnection is a connection together with the counterpart's
// public identity.
type EnrichedConnection struct {
	models.Connection
	OtherUser *ConnectionCounterpart `json:"other_user"`
}

// ConnectionCounterpart is the slim identity attached to listed
// connections.
type ConnectionCounterpart struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Picture  *string `json:"picture,omitempty"`
	Verified bool    `json:"verified"`
}

// List returns the user's connections, optionally filtered by status,
// each enriched with the counterpart's identity. Connections whose
// counterpart no longer resolves are dropped.
func (s *ConnectionService) List(ctx context.Context, userID, status string) ([]EnrichedConnection, error) {
	if status != "" &&
		status != models.ConnectionPending &&
		status != models.ConnectionAccepted &&
		status != models.ConnectionRejected {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	conns, err := s.connections.ListByUser(ctx, userID, status, maxConnectionList)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return []EnrichedConnection{}, nil
	}

	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.Other(userID))
	}
	users, err := s.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	result := make([]EnrichedConnection, 0, len(conns))
	for _, c := range conns {
		other, ok := byID[c.Other(userID)]
		if !ok {
			continue
		}
		result = append(result, EnrichedConnection{
			Connection: *c,
			OtherUser: &ConnectionCounterpart{
				UserID:   other.UserID,
				Name:     other.Name,
				Picture:  other.Picture,
				Verified: other.Verified,
			},
		})
	}
	return result, nil
}
