package checkout_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"gamevault/internal/checkout"
	"gamevault/internal/domain"
	"gamevault/internal/store"
	"gamevault/internal/storetest"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	db    *gorm.DB
	svc   *checkout.Service
	carts *store.CartStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := storetest.NewDB(t)
	return &fixture{
		db:    gdb,
		svc:   checkout.NewService(gdb, quietLogger()),
		carts: store.NewCartStore(gdb),
	}
}

func (f *fixture) fillCart(t *testing.T, userID uint, games ...*domain.Game) {
	t.Helper()
	for _, g := range games {
		require.NoError(t, f.carts.Add(context.Background(), userID, g.ID))
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "50.00")
	a := storetest.SeedGame(t, f.db, "Game A", "20.00")
	b := storetest.SeedGame(t, f.db, "Game B", "15.00")
	f.fillCart(t, user.ID, a, b)

	order, err := f.svc.PlaceOrder(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotZero(t, order.ID)
	assert.Equal(t, user.ID, order.UserID)
	assert.True(t, dec("35.00").Equal(order.TotalAmount), "total = %s", order.TotalAmount)
	assert.Len(t, order.Items, 2)

	assert.True(t, dec("15.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(1), storetest.Count(t, f.db, &domain.Order{}))

	var entries []domain.Transaction
	require.NoError(t, f.db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.KindPurchase, entries[0].Kind)
	require.NotNil(t, entries[0].OrderID)
	assert.Equal(t, order.ID, *entries[0].OrderID)
	assert.True(t, order.TotalAmount.Equal(entries[0].Amount))

	_, err = f.carts.Items(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestPlaceOrder_InsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "10.00")
	c := storetest.SeedGame(t, f.db, "Game C", "12.00")
	f.fillCart(t, user.ID, c)

	order, err := f.svc.PlaceOrder(ctx, user.ID)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	var cerr *checkout.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, checkout.StateCartValidated, cerr.State)

	assert.True(t, dec("10.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Order{}))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Transaction{}))

	games, err := f.carts.Items(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, c.ID, games[0].ID)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "10.00")

	_, err := f.svc.PlaceOrder(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	// A cart that exists but was drained behaves the same
	_, err = f.carts.Get(ctx, user.ID)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	assert.True(t, dec("10.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Order{}))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Transaction{}))
}

func TestPlaceOrder_UnknownUser(t *testing.T) {
	f := newFixture(t)
	game := storetest.SeedGame(t, f.db, "Game A", "1.00")
	// Cart rows for an id that has no account
	require.NoError(t, f.db.Create(&domain.CartItem{UserID: 777, GameID: game.ID}).Error)

	_, err := f.svc.PlaceOrder(context.Background(), 777)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPlaceOrder_ConcurrentCheckouts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "20.00")
	a := storetest.SeedGame(t, f.db, "Game A", "15.00")
	f.fillCart(t, user.ID, a)

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(ctx, user.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrConcurrentUpdateConflict),
			errors.Is(err, domain.ErrInsufficientBalance),
			errors.Is(err, domain.ErrCartEmpty):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.True(t, dec("5.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(1), storetest.Count(t, f.db, &domain.Order{}))
	assert.Equal(t, int64(1), storetest.Count(t, f.db, &domain.Transaction{}))
}

func TestPlaceOrder_SameUserRefillRace(t *testing.T) {
	// Two carts' worth of checkouts against a balance that covers one.
	// Each attempt refills the cart, so losers can only be stopped by the
	// balance guards, never by an empty cart.
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "25.00")
	a := storetest.SeedGame(t, f.db, "Game A", "20.00")

	var wg sync.WaitGroup
	results := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.carts.Add(ctx, user.ID, a.ID); err != nil {
				results <- err
				return
			}
			_, err := f.svc.PlaceOrder(ctx, user.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, dec("5.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(1), storetest.Count(t, f.db, &domain.Transaction{}, "kind = ?", domain.KindPurchase))
}

func TestPlaceOrder_LedgerFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "50.00")
	a := storetest.SeedGame(t, f.db, "Game A", "20.00")
	f.fillCart(t, user.ID, a)

	boom := errors.New("ledger unavailable")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_ledger", func(tx *gorm.DB) {
		if tx.Statement.Table == "transactions" {
			_ = tx.AddError(boom)
		}
	}))

	order, err := f.svc.PlaceOrder(ctx, user.ID)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, boom)

	var cerr *checkout.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, checkout.StateOrderCreated, cerr.State)

	// The debit and the order were rolled back with the failed append
	assert.True(t, dec("50.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Order{}))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.OrderItem{}))
	games, err := f.carts.Items(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestPlaceOrder_CartChangedBeforeDrain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "50.00")
	a := storetest.SeedGame(t, f.db, "Game A", "20.00")
	b := storetest.SeedGame(t, f.db, "Game B", "15.00")
	f.fillCart(t, user.ID, a, b)

	// Drop a priced game from the cart while the debit runs, inside the same transaction
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:drop_cart_item", func(tx *gorm.DB) {
		if tx.Statement.Table != "users" {
			return
		}
		_ = tx.Session(&gorm.Session{NewDB: true}).
			Where("user_id = ? AND game_id = ?", user.ID, b.ID).
			Delete(&domain.CartItem{}).Error
	}))

	order, err := f.svc.PlaceOrder(ctx, user.ID)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdateConflict)

	var cerr *checkout.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, checkout.StateLedgered, cerr.State)

	assert.True(t, dec("50.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Order{}))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.OrderItem{}))
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Transaction{}))
	// The removal happened in the rolled-back transaction too
	assert.Equal(t, int64(2), storetest.Count(t, f.db, &domain.CartItem{}, "user_id = ?", user.ID))
}

func TestPlaceOrder_ZeroTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, f.db, "alice", "5.00")
	free := storetest.SeedGame(t, f.db, "Free Demo", "0.00")
	f.fillCart(t, user.ID, free)

	order, err := f.svc.PlaceOrder(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.IsZero())
	require.Len(t, order.Items, 1)
	assert.Equal(t, free.ID, order.Items[0].GameID)

	assert.True(t, dec("5.00").Equal(storetest.Balance(t, f.db, user.ID)))
	assert.Equal(t, int64(1), storetest.Count(t, f.db, &domain.Transaction{}, "kind = ?", domain.KindPurchase))
	_, err = f.carts.Items(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestAddBalance(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantErr     error
		wantBalance string
		wantEntries int64
	}{
		{name: "positive", amount: "25.50", wantBalance: "35.50", wantEntries: 1},
		{name: "zero", amount: "0", wantErr: domain.ErrInvalidAmount, wantBalance: "10.00"},
		{name: "negative", amount: "-5", wantErr: domain.ErrInvalidAmount, wantBalance: "10.00"},
		{name: "sub-cent", amount: "0.001", wantErr: domain.ErrInvalidAmount, wantBalance: "10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := storetest.SeedUser(t, f.db, "alice", "10.00")

			entry, err := f.svc.AddBalance(context.Background(), user.ID, dec(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, entry)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.KindTopUp, entry.Kind)
				assert.Nil(t, entry.OrderID)
				assert.True(t, dec(tt.amount).Equal(entry.Amount))
			}
			assert.True(t, dec(tt.wantBalance).Equal(storetest.Balance(t, f.db, user.ID)))
			assert.Equal(t, tt.wantEntries, storetest.Count(t, f.db, &domain.Transaction{}, "kind = ?", domain.KindTopUp))
		})
	}
}

func TestAddBalance_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddBalance(context.Background(), 4242, dec("5"))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, int64(0), storetest.Count(t, f.db, &domain.Transaction{}))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Start", checkout.StateStart.String())
	assert.Equal(t, "CartCleared", checkout.StateCartCleared.String())
	assert.Equal(t, "State(42)", checkout.State(42).String())
}
