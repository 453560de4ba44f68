// Package checkout turns a cart into a paid order and credits top-ups.
//
// The debit, the order, the ledger entry and the cart drain are written in
// one database transaction: either all four land or none do. The wallet's
// conditional debit is the only concurrency guard; there is no per-user lock.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamevault/internal/domain"
	"gamevault/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// State is the last step a checkout attempt completed
type State int

// Checkout steps, in order
const (
	StateStart State = iota
	StateCartValidated
	StateBalanceVerified
	StateDebited
	StateOrderCreated
	StateLedgered
	StateCartCleared
)

var stateNames = [...]string{"Start", "CartValidated", "BalanceVerified", "Debited", "OrderCreated", "Ledgered", "CartCleared"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Error reports a failed checkout and the step it got to.
// Steps past BalanceVerified were rolled back.
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("checkout failed after %s: %v", e.State, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Service coordinates the cart, wallet, order and ledger stores
type Service struct {
	db      *gorm.DB
	carts   *store.CartStore
	wallets *store.WalletStore
	orders  *store.OrderStore
	ledger  *store.LedgerStore
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewService builds the orchestrator and its stores on db
func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		db:      db,
		carts:   store.NewCartStore(db),
		wallets: store.NewWalletStore(db),
		orders:  store.NewOrderStore(db),
		ledger:  store.NewLedgerStore(db),
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder checks out the user's cart. It returns the created order, or one
// of domain.ErrCartEmpty, domain.ErrUserNotFound, domain.ErrInsufficientBalance
// or domain.ErrConcurrentUpdateConflict wrapped in *Error.
func (s *Service) PlaceOrder(ctx context.Context, userID uint) (*domain.Order, error) {
	state := StateStart
	fields := logrus.Fields{"user_id": userID}
	fail := func(err error) error {
		s.log.WithFields(fields).WithFields(logrus.Fields{
			"state": state.String(),
			"error": err.Error(),
		}).Warn("Checkout failed")
		return &Error{State: state, Err: err}
	}

	games, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, fail(err)
	}
	state = StateCartValidated

	total := domain.SumPrices(games)
	fields["amount"] = total.StringFixed(2)

	balance, err := s.wallets.Balance(ctx, userID)
	if err != nil {
		return nil, fail(err)
	}
	// Early exit only; the conditional debit below is the authoritative guard
	if balance.LessThan(total) {
		return nil, fail(domain.ErrInsufficientBalance)
	}
	state = StateBalanceVerified

	items := make([]domain.OrderItem, len(games))
	gameIDs := make([]uint, len(games))
	for i, g := range games {
		items[i] = domain.OrderItem{GameID: g.ID, Price: g.Price}
		gameIDs[i] = g.ID
	}

	var order *domain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()

		applied, err := s.wallets.WithTx(tx).Debit(ctx, userID, total)
		if err != nil {
			return err
		}
		if applied == 0 {
			return domain.ErrConcurrentUpdateConflict
		}
		state = StateDebited

		order, err = s.orders.WithTx(tx).Create(ctx, userID, total, now, items)
		if err != nil {
			return err
		}
		state = StateOrderCreated

		if _, err := s.ledger.WithTx(tx).Append(ctx, userID, &order.ID, domain.KindPurchase, total, now); err != nil {
			return err
		}
		state = StateLedgered

		removed, err := s.carts.WithTx(tx).RemoveGames(ctx, userID, gameIDs)
		if err != nil {
			return err
		}
		// Something was removed from the cart since it was priced
		if removed != int64(len(gameIDs)) {
			return domain.ErrConcurrentUpdateConflict
		}
		state = StateCartCleared
		return nil
	})
	if err != nil {
		order = nil
		return nil, fail(err)
	}

	fields["order_id"] = order.ID
	s.log.WithFields(fields).Info("Order placed")
	return order, nil
}

// AddBalance credits amount to the user's wallet and records a TopUp entry,
// both in one transaction. amount must be positive with at most two decimals.
func (s *Service) AddBalance(ctx context.Context, userID uint, amount decimal.Decimal) (*domain.Transaction, error) {
	fields := logrus.Fields{"user_id": userID, "amount": amount.String()}
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		s.log.WithFields(fields).Warn("Top-up rejected: invalid amount")
		return nil, domain.ErrInvalidAmount
	}

	var entry *domain.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.wallets.WithTx(tx).Credit(ctx, userID, amount); err != nil {
			return err
		}
		var err error
		entry, err = s.ledger.WithTx(tx).Append(ctx, userID, nil, domain.KindTopUp, amount, s.now())
		return err
	})
	if err != nil {
		fields["error"] = err.Error()
		s.log.WithFields(fields).Error("Top-up failed")
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("add balance: %w", err)
	}

	fields["transaction_id"] = entry.ID
	s.log.WithFields(fields).Info("Top-up transaction")
	return entry, nil
}
