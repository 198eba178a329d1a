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

const maxConversationSize = 1000

type messageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	Conversation(ctx context.Context, userA, userB string, limit int64) ([]*models.Message, error)
	MarkRead(ctx context.Context, senderID, receiverID string) error
}

type messageUserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// notifier is the real-time push collaborator. Push is fire-and-forget:
// the message is durable before any push attempt and push failure never
// rolls storage back.
type notifier interface {
	Publish(ctx context.Context, userID string, eventType string, payload any) error
	IsOnline(ctx context.Context, userID string) bool
}

type pusher interface {
	Push(ctx context.Context, deviceToken, title, body string)
}

// MessageService handles message persistence and real-time fan-out
type MessageService struct {
	messages messageStore
	users    messageUserStore
	bus      notifier
	push     pusher
}

// NewMessageService creates a new message service
func NewMessageService(messages messageStore, users messageUserStore, bus notifier, push pusher) *MessageService {
	return &MessageService{messages: messages, users: users, bus: bus, push: push}
}

// Send persists a message, then pushes a new_message event to the
// receiver's room and, when the receiver is offline everywhere, fires a
// push notification.
func (s *MessageService) Send(ctx context.Context, sender *models.User, receiverID, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load receiver: %w", err)
	}

	msg := &models.Message{
		MessageID:  models.NewID("msg"),
		SenderID:   sender.UserID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  time.Now().UTC(),
		Read:       false,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, receiverID, EventNewMessage, msg); err != nil {
		log.Error().Err(err).Str("message_id", msg.MessageID).Msg("Failed to publish message event")
	}

	if !s.bus.IsOnline(ctx, receiverID) && receiver.PushToken != nil {
		s.push.Push(ctx, *receiver.PushToken, sender.Name, content)
	}

	return msg, nil
}

// Conversation returns the message history with another user, oldest
// first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherUserID string) ([]*models.Message, error) {
	msgs, err := s.messages.Conversation(ctx, userID, otherUserID, maxConversationSize)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	return msgs, nil
}

// MarkRead marks every unread message from otherUserID to userID as read.
// Only the receiver side can flip the flag.
func (s *MessageService) MarkRead(ctx context.Context, userID, otherUserID string) error {
	return s.messages.MarkRead(ctx, otherUserID, userID)
}
