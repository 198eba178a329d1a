package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/repository"

	"github.com/rs/zerolog/log"
)

// identityExchanger is the external collaborator boundary for session
// exchange.
type identityExchanger interface {
	SessionData(ctx context.Context, sessionID string) (*ProviderIdentity, error)
}

type sessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

type authUserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService resolves session tokens to authenticated users and runs the
// external session exchange.
type AuthService struct {
	sessions   sessionStore
	users      authUserStore
	identity   identityExchanger
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(sessions sessionStore, users authUserStore, identity identityExchanger, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		sessions:   sessions,
		users:      users,
		identity:   identity,
		sessionTTL: sessionTTL,
	}
}

// ExchangeResult is the outcome of a successful session exchange.
type ExchangeResult struct {
	SessionToken string `json:"session_token"`
	UserID       string `json:"user_id"`
	ExpiresAt    time.Time
}

// ExchangeSession exchanges an external session id for a stored session.
// An existing user is linked by email; otherwise a new one is provisioned.
func (s *AuthService) ExchangeSession(ctx context.Context, sessionID string) (*ExchangeResult, error) {
	identity, err := s.identity.SessionData(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var userID string
	existing, err := s.users.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		userID = existing.UserID
	case errors.Is(err, repository.ErrNotFound):
		user := &models.User{
			UserID:        models.NewID("user"),
			Email:         identity.Email,
			Name:          identity.Name,
			Picture:       identity.Picture,
			ProfileImages: []string{},
			BlockedUsers:  []string{},
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to provision user: %w", err)
		}
		userID = user.UserID
		log.Info().Str("user_id", userID).Msg("User provisioned")
	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	session := &models.Session{
		UserID:       userID,
		SessionToken: identity.SessionToken,
		ExpiresAt:    time.Now().UTC().Add(s.sessionTTL),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &ExchangeResult{
		SessionToken: session.SessionToken,
		UserID:       userID,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// ResolveSession returns the authenticated user for a session token. An
// expired session is deleted and treated as absent.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.ExpiresAt.Before(time.Now().UTC()) {
		if err := s.sessions.DeleteByToken(ctx, token); err != nil {
			log.Error().Err(err).Msg("Failed to delete expired session")
		}
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return user, nil
}

// Logout deletes the session for a token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

// SessionTTL returns the configured session lifetime, used for cookie
// expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
