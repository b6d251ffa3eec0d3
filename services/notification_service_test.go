package services

import (
	"context"
	"testing"

	"gin-inventory/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	service := NewNotificationService(repositories.NewNotificationRepository(db), NewRealtimeHub(), zerolog.Nop())
	ctx := context.Background()

	first, err := service.Notify(ctx, alice.ID, "first")
	require.NoError(t, err)
	_, err = service.Notify(ctx, alice.ID, "second")
	require.NoError(t, err)

	messages, err := service.UnreadMessages(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, messages)

	requireNotFound(t, service.MarkRead(ctx, first.ID, bob.ID))
	require.NoError(t, service.MarkRead(ctx, first.ID, alice.ID))

	messages, err = service.UnreadMessages(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, messages)

	updated, err := service.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	messages, err = service.UnreadMessages(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	all, err := service.FindAll(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := service.FindAll(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
