package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
)

func TestSavedListService_AddTwice(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.register(t, "Ada", "ada@example.com")
	item := env.createItem(t, admin, "Alien", "horror", 1979)

	require.NoError(t, env.savedList.Add(ctx, user, item.ID))

	err := env.savedList.Add(ctx, user, item.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
	assert.Equal(t, MsgAlreadySaved, err.Error())

	items, err := env.savedList.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestSavedListService_AddRejects(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "Ada", "ada@example.com")

	err := env.savedList.Add(ctx, domain.Identity{}, id.NewUUID())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	err = env.savedList.Add(ctx, user, id.NewUUID())
	require.Error(t, err)
	assert.Equal(t, MsgItemNotFound, err.Error())

	err = env.savedList.Add(ctx, user, " ")
	assert.Contains(t, domainerrors.FieldErrorsOf(err), "itemId")
}

func TestSavedListService_Remove(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.register(t, "Ada", "ada@example.com")
	item := env.createItem(t, admin, "Alien", "horror", 1979)

	require.NoError(t, env.savedList.Add(ctx, user, item.ID))
	require.NoError(t, env.savedList.Remove(ctx, user, item.ID))

	err := env.savedList.Remove(ctx, user, item.ID)
	require.Error(t, err)
	assert.Equal(t, MsgNotSaved, err.Error())
}

func TestSavedListService_DropsDeletedItems(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.register(t, "Ada", "ada@example.com")
	kept := env.createItem(t, admin, "Alien", "horror", 1979)
	gone := env.createItem(t, admin, "Aliens", "action", 1986)

	require.NoError(t, env.savedList.Add(ctx, user, kept.ID))
	require.NoError(t, env.savedList.Add(ctx, user, gone.ID))
	require.NoError(t, env.catalog.Delete(ctx, admin, gone.ID))

	items, err := env.savedList.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)
	// Signed-in owners see the restricted link.
	assert.NotEmpty(t, items[0].RestrictedLink)
}

func TestSavedListService_ConcurrentAddsKeepOneEntry(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	user := env.register(t, "Ada", "ada@example.com")
	item := env.createItem(t, admin, "Alien", "horror", 1979)

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			errs[i] = env.savedList.Add(ctx, user, item.ID)
		})
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)

	items, err := env.savedList.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}
