package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// APNsPusher sends best-effort push notifications to iOS devices when the
// receiver has no live connection anywhere. A nil *APNsPusher is a valid
// no-op pusher.
type APNsPusher struct {
	client *apns2.Client
	topic  string
}

// NewAPNsPusher creates a pusher from a p12 certificate
func NewAPNsPusher(certFile, certPass, topic string, sandbox bool) (*APNsPusher, error) {
	cert, err := certificate.FromP12File(certFile, certPass)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if sandbox {
		client = client.Development()
	} else {
		client = client.Production()
	}

	return &APNsPusher{client: client, topic: topic}, nil
}

// Push sends an alert notification. Failures are logged, never surfaced.
func (p *APNsPusher) Push(ctx context.Context, deviceToken, title, body string) {
	if p == nil || deviceToken == "" {
		return
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       p.topic,
		Payload:     payload.NewPayload().AlertTitle(title).AlertBody(body).Sound("default"),
	}

	res, err := p.client.PushWithContext(ctx, notification)
	if err != nil {
		log.Error().Err(err).Msg("APNs push failed")
		return
	}
	if !res.Sent() {
		log.Warn().Str("reason", res.Reason).Int("status", res.StatusCode).Msg("APNs push rejected")
	}
}
