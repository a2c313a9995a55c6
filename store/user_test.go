package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palatebot/palate/store"
)

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	ts := newTestingStore(ctx, t)

	created, err := ts.CreateUser(ctx, &store.User{
		TelegramID: 424242,
		Username:   "alice",
		FirstName:  "Alice",
		LastName:   "Smith",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.UID)
	assert.NotZero(t, created.CreatedTs)

	telegramID := int64(424242)
	found, err := ts.GetUser(ctx, &store.FindUser{TelegramID: &telegramID})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.UID, found.UID)
	assert.Equal(t, "alice", found.Username)
}

func TestGetUserMissing(t *testing.T) {
	ctx := context.Background()
	ts := newTestingStore(ctx, t)

	telegramID := int64(999)
	found, err := ts.GetUser(ctx, &store.FindUser{TelegramID: &telegramID})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetOrCreateUserByTelegramID(t *testing.T) {
	ctx := context.Background()
	ts := newTestingStore(ctx, t)

	user, created, err := ts.GetOrCreateUserByTelegramID(ctx, &store.User{
		TelegramID: 7,
		Username:   "bob",
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, user)

	again, created, err := ts.GetOrCreateUserByTelegramID(ctx, &store.User{
		TelegramID: 7,
		Username:   "bob",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	ts := newTestingStore(ctx, t)

	user, err := ts.CreateUser(ctx, &store.User{TelegramID: 11, Username: "old"})
	require.NoError(t, err)

	newUsername := "new"
	updated, err := ts.UpdateUser(ctx, &store.UpdateUser{ID: user.ID, Username: &newUsername})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Username)
	assert.Equal(t, user.TelegramID, updated.TelegramID)

	// The cache must serve the updated row.
	telegramID := int64(11)
	found, err := ts.GetUser(ctx, &store.FindUser{TelegramID: &telegramID})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "new", found.Username)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	ts := newTestingStore(ctx, t)

	user, err := ts.CreateUser(ctx, &store.User{TelegramID: 13, Username: "gone"})
	require.NoError(t, err)

	require.NoError(t, ts.DeleteUser(ctx, &store.DeleteUser{ID: user.ID}))

	telegramID := int64(13)
	found, err := ts.GetUser(ctx, &store.FindUser{TelegramID: &telegramID})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDuplicateTelegramIDRejected(t *testing.T) {
	ctx := context.Background()
	ts := newTestingStore(ctx, t)

	_, err := ts.CreateUser(ctx, &store.User{TelegramID: 21})
	require.NoError(t, err)
	_, err = ts.CreateUser(ctx, &store.User{TelegramID: 21})
	assert.Error(t, err)
}
