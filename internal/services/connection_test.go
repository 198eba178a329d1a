package services

import (
	"context"
	"testing"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
	"github.com/Jatin546/routebuddy-mobile-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnectionStore struct {
	byID   map[string]*models.Connection
	byPair map[string]*models.Connection
}

func newFakeConnectionStore() *fakeConnectionStore {
	return &fakeConnectionStore{
		byID:   make(map[string]*models.Connection),
		byPair: make(map[string]*models.Connection),
	}
}

func (f *fakeConnectionStore) Create(_ context.Context, c *models.Connection) error {
	if _, ok := f.byPair[c.PairKey]; ok {
		return repository.ErrDuplicatePair
	}
	f.byID[c.ConnectionID] = c
	f.byPair[c.PairKey] = c
	return nil
}

func (f *fakeConnectionStore) GetByID(_ context.Context, id string) (*models.Connection, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeConnectionStore) PairExists(_ context.Context, a, b string) (bool, error) {
	_, ok := f.byPair[repository.PairKey(a, b)]
	return ok, nil
}

func (f *fakeConnectionStore) UpdateStatus(_ context.Context, id, status string) error {
	c, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeConnectionStore) ListByUser(_ context.Context, userID, status string, _ int64) ([]*models.Connection, error) {
	var out []*models.Connection
	for _, c := range f.byID {
		if c.User1ID != userID && c.User2ID != userID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeConnectionUserStore struct {
	users map[string]*models.User
}

func (f *fakeConnectionUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeConnectionUserStore) GetManyByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func connectionFixture() (*ConnectionService, *fakeConnectionStore) {
	conns := newFakeConnectionStore()
	users := &fakeConnectionUserStore{users: map[string]*models.User{
		"user_a": testUser("user_a", "A"),
		"user_b": testUser("user_b", "B"),
	}}
	return NewConnectionService(conns, users), conns
}

func TestConnectionRequestCreatesPending(t *testing.T) {
	svc, _ := connectionFixture()

	conn, err := svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionPending, conn.Status)
	assert.Equal(t, "user_a", conn.User1ID)
	assert.Equal(t, "user_b", conn.User2ID)
}

func TestConnectionRequestDuplicateConflicts(t *testing.T) {
	svc, _ := connectionFixture()

	_, err := svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	require.NoError(t, err)

	// Same direction.
	_, err = svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	assert.ErrorIs(t, err, ErrConflict)

	// Reverse direction hits the same unordered pair.
	_, err = svc.Request(context.Background(), testUser("user_b", "B"), "user_a")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConnectionRequestAfterRejectionStillConflicts(t *testing.T) {
	svc, _ := connectionFixture()

	conn, err := svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), "user_b", conn.ConnectionID, "reject")
	require.NoError(t, err)

	// A rejected pair permanently blocks re-requests.
	_, err = svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConnectionRequestValidation(t *testing.T) {
	svc, _ := connectionFixture()

	_, err := svc.Request(context.Background(), testUser("user_a", "A"), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Request(context.Background(), testUser("user_a", "A"), "user_a")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Request(context.Background(), testUser("user_a", "A"), "user_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConnectionRequestBlockedEitherDirection(t *testing.T) {
	conns := newFakeConnectionStore()
	users := &fakeConnectionUserStore{users: map[string]*models.User{
		"user_a": testUser("user_a", "A"),
		"user_b": {UserID: "user_b", Name: "B", BlockedUsers: []string{"user_a"}},
		"user_c": testUser("user_c", "C"),
	}}
	svc := NewConnectionService(conns, users)

	// Target has blocked the requester.
	_, err := svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	assert.ErrorIs(t, err, ErrNotFound)

	// Requester has blocked the target.
	requester := &models.User{UserID: "user_a", Name: "A", BlockedUsers: []string{"user_c"}}
	_, err = svc.Request(context.Background(), requester, "user_c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConnectionRespondOnlyByReceiver(t *testing.T) {
	svc, _ := connectionFixture()

	conn, err := svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	require.NoError(t, err)

	// The requester cannot respond to their own request.
	_, err = svc.Respond(context.Background(), "user_a", conn.ConnectionID, "accept")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.Respond(context.Background(), "user_b", conn.ConnectionID, "accept")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, updated.Status)
}

func TestConnectionRespondTerminalStateConflicts(t *testing.T) {
	svc, _ := connectionFixture()

	conn, err := svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), "user_b", conn.ConnectionID, "accept")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), "user_b", conn.ConnectionID, "reject")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConnectionRespondValidatesAction(t *testing.T) {
	svc, _ := connectionFixture()

	_, err := svc.Respond(context.Background(), "user_b", "conn_whatever", "maybe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConnectionListEnrichesCounterpart(t *testing.T) {
	svc, _ := connectionFixture()

	created, err := svc.Request(context.Background(), testUser("user_a", "A"), "user_b")
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "user_a", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ConnectionID, list[0].ConnectionID)
	require.NotNil(t, list[0].OtherUser)
	assert.Equal(t, "user_b", list[0].OtherUser.UserID)
	assert.Equal(t, "B", list[0].OtherUser.Name)

	// Status filter.
	pending, err := svc.List(context.Background(), "user_a", models.ConnectionPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	accepted, err := svc.List(context.Background(), "user_a", models.ConnectionAccepted)
	require.NoError(t, err)
	assert.Empty(t, accepted)

	_, err = svc.List(context.Background(), "user_a", "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}
