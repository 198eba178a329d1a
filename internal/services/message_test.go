package services

import (
	"context"
	"testing"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageStore struct {
	messages []*models.Message
	marked   [][2]string // sender, receiver pairs passed to MarkRead
}

func (f *fakeMessageStore) Create(_ context.Context, m *models.Message) error {
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessageStore) Conversation(_ context.Context, a, b string, _ int64) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) MarkRead(_ context.Context, senderID, receiverID string) error {
	f.marked = append(f.marked, [2]string{senderID, receiverID})
	return nil
}

type fakeMessageUserStore struct {
	users map[string]*models.User
}

func (f *fakeMessageUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type publishedEvent struct {
	userID    string
	eventType string
}

type fakeNotifier struct {
	published []publishedEvent
	online    map[string]bool
}

func (f *fakeNotifier) Publish(_ context.Context, userID, eventType string, _ any) error {
	f.published = append(f.published, publishedEvent{userID: userID, eventType: eventType})
	return nil
}

func (f *fakeNotifier) IsOnline(_ context.Context, userID string) bool {
	return f.online[userID]
}

type fakePusher struct {
	pushed []string // device tokens
}

func (f *fakePusher) Push(_ context.Context, deviceToken, _, _ string) {
	f.pushed = append(f.pushed, deviceToken)
}

func messageFixture(receiverOnline bool, pushToken *string) (*MessageService, *fakeMessageStore, *fakeNotifier, *fakePusher) {
	store := &fakeMessageStore{}
	users := &fakeMessageUserStore{users: map[string]*models.User{
		"user_b": {UserID: "user_b", Name: "B", PushToken: pushToken},
	}}
	bus := &fakeNotifier{online: map[string]bool{"user_b": receiverOnline}}
	push := &fakePusher{}
	return NewMessageService(store, users, bus, push), store, bus, push
}

func TestSendPersistsThenPublishes(t *testing.T) {
	svc, store, bus, _ := messageFixture(true, nil)
	sender := testUser("user_a", "A")

	msg, err := svc.Send(context.Background(), sender, "user_b", "see you at the park and ride")
	require.NoError(t, err)

	assert.Equal(t, "user_a", msg.SenderID)
	assert.Equal(t, "user_b", msg.ReceiverID)
	assert.False(t, msg.Read)
	assert.NotEmpty(t, msg.MessageID)

	require.Len(t, store.messages, 1)
	require.Len(t, bus.published, 1)
	assert.Equal(t, "user_b", bus.published[0].userID)
	assert.Equal(t, EventNewMessage, bus.published[0].eventType)
}

func TestSendPushesWhenReceiverOffline(t *testing.T) {
	token := "device-token-1"
	svc, _, _, push := messageFixture(false, &token)

	_, err := svc.Send(context.Background(), testUser("user_a", "A"), "user_b", "running late")
	require.NoError(t, err)

	require.Len(t, push.pushed, 1)
	assert.Equal(t, token, push.pushed[0])
}

func TestSendSkipsPushWhenReceiverOnline(t *testing.T) {
	token := "device-token-1"
	svc, _, _, push := messageFixture(true, &token)

	_, err := svc.Send(context.Background(), testUser("user_a", "A"), "user_b", "hi")
	require.NoError(t, err)
	assert.Empty(t, push.pushed)
}

func TestSendValidation(t *testing.T) {
	svc, store, _, _ := messageFixture(true, nil)

	_, err := svc.Send(context.Background(), testUser("user_a", "A"), "user_b", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Send(context.Background(), testUser("user_a", "A"), "user_missing", "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, store.messages)
}

func TestConversationNeverNil(t *testing.T) {
	svc, _, _, _ := messageFixture(true, nil)

	msgs, err := svc.Conversation(context.Background(), "user_a", "user_b")
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestMarkReadFlipsDirection(t *testing.T) {
	svc, store, _, _ := messageFixture(true, nil)

	// The caller is the receiver: messages FROM the counterpart TO the
	// caller get marked.
	require.NoError(t, svc.MarkRead(context.Background(), "user_a", "user_b"))
	require.Len(t, store.marked, 1)
	assert.Equal(t, [2]string{"user_b", "user_a"}, store.marked[0])
}
