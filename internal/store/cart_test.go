package store_test

import (
	"context"
	"testing"

	"gamevault/internal/domain"
	"gamevault/internal/store"
	"gamevault/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStore_GetCreatesLazily(t *testing.T) {
	gdb := storetest.NewDB(t)
	carts := store.NewCartStore(gdb)
	ctx := context.Background()
	user := storetest.SeedUser(t, gdb, "alice", "0")

	assert.Equal(t, int64(0), storetest.Count(t, gdb, &domain.Cart{}))

	cart, err := carts.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cart.UserID)

	again, err := carts.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.UserID, again.UserID)
	assert.Equal(t, int64(1), storetest.Count(t, gdb, &domain.Cart{}))
}

func TestCartStore_AddRemove(t *testing.T) {
	gdb := storetest.NewDB(t)
	carts := store.NewCartStore(gdb)
	ctx := context.Background()
	user := storetest.SeedUser(t, gdb, "alice", "0")
	a := storetest.SeedGame(t, gdb, "Game A", "20.00")
	b := storetest.SeedGame(t, gdb, "Game B", "15.00")

	require.NoError(t, carts.Add(ctx, user.ID, a.ID))
	require.NoError(t, carts.Add(ctx, user.ID, a.ID)) // second add is a no-op
	require.NoError(t, carts.Add(ctx, user.ID, b.ID))

	games, err := carts.Items(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, []uint{games[0].ID, games[1].ID})
	assert.True(t, decimalString("35").Equal(domain.SumPrices(games)))

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, carts.Remove(ctx, user.ID, a.ID))
		once, err := carts.Items(ctx, user.ID)
		require.NoError(t, err)

		require.NoError(t, carts.Remove(ctx, user.ID, a.ID))
		twice, err := carts.Items(ctx, user.ID)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
		require.Len(t, twice, 1)
		assert.Equal(t, b.ID, twice[0].ID)
	})

	t.Run("unknown game", func(t *testing.T) {
		err := carts.Add(ctx, user.ID, 9999)
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})
}

func TestCartStore_ItemsEmpty(t *testing.T) {
	gdb := storetest.NewDB(t)
	carts := store.NewCartStore(gdb)
	ctx := context.Background()
	user := storetest.SeedUser(t, gdb, "alice", "0")

	// No cart at all
	_, err := carts.Items(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	// Cart exists but holds nothing
	_, err = carts.Get(ctx, user.ID)
	require.NoError(t, err)
	games, err := carts.Items(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
	assert.Nil(t, games)
}

func TestCartStore_Clear(t *testing.T) {
	gdb := storetest.NewDB(t)
	carts := store.NewCartStore(gdb)
	ctx := context.Background()
	alice := storetest.SeedUser(t, gdb, "alice", "0")
	bob := storetest.SeedUser(t, gdb, "bob", "0")
	game := storetest.SeedGame(t, gdb, "Game A", "20.00")

	require.NoError(t, carts.Add(ctx, alice.ID, game.ID))
	require.NoError(t, carts.Add(ctx, bob.ID, game.ID))

	require.NoError(t, carts.Clear(ctx, alice.ID))
	require.NoError(t, carts.Clear(ctx, alice.ID))

	_, err := carts.Items(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
	bobGames, err := carts.Items(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobGames, 1)
	// The drained cart still exists
	assert.Equal(t, int64(2), storetest.Count(t, gdb, &domain.Cart{}))
}

func TestCartStore_RemoveGames(t *testing.T) {
	gdb := storetest.NewDB(t)
	carts := store.NewCartStore(gdb)
	ctx := context.Background()
	user := storetest.SeedUser(t, gdb, "alice", "0")
	a := storetest.SeedGame(t, gdb, "Game A", "20.00")
	b := storetest.SeedGame(t, gdb, "Game B", "15.00")
	c := storetest.SeedGame(t, gdb, "Game C", "12.00")

	require.NoError(t, carts.Add(ctx, user.ID, a.ID))
	require.NoError(t, carts.Add(ctx, user.ID, b.ID))

	removed, err := carts.RemoveGames(ctx, user.ID, []uint{a.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = carts.RemoveGames(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	games, err := carts.Items(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, b.ID, games[0].ID)
}
