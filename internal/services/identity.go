package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ProviderIdentity is the verified identity returned by the external
// provider for a successful session exchange.
type ProviderIdentity struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

// IdentityClient exchanges opaque session ids with the external identity
// provider. Its wait is bounded; every failure mode collapses into
// ErrInvalidSession so upstream detail never reaches the client.
type IdentityClient struct {
	baseURL string
	client  *http.Client
}

// NewIdentityClient creates a client for the identity provider
func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// SessionData exchanges a session id for the provider-verified identity
func (c *IdentityClient) SessionData(ctx context.Context, sessionID string) (*ProviderIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build identity provider request")
		return nil, ErrInvalidSession
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Identity provider request failed")
		return nil, ErrInvalidSession
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Msg("Identity provider rejected session")
		return nil, ErrInvalidSession
	}

	var identity ProviderIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		log.Error().Err(err).Msg("Failed to decode identity provider response")
		return nil, ErrInvalidSession
	}

	if identity.Email == "" || identity.SessionToken == "" {
		log.Error().Msg("Identity provider response missing required fields")
		return nil, ErrInvalidSession
	}

	return &identity, nil
}
