package store

import (
	"context"
	"fmt"

	"gamevault/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletStore is the only writer of users.wallet_balance
type WalletStore struct {
	db *gorm.DB
}

// NewWalletStore returns a wallet store bound to db
func NewWalletStore(db *gorm.DB) *WalletStore {
	return &WalletStore{db: db}
}

// WithTx returns a copy of the store that runs every query inside tx
func (s *WalletStore) WithTx(tx *gorm.DB) *WalletStore {
	return &WalletStore{db: tx}
}

// Debit subtracts amount from the balance in a single conditional update.
// It returns 1 when the debit was applied and 0 when the balance did not
// cover amount at write time. Two concurrent debits can never both pass
// the guard when only one is affordable.
func (s *WalletStore) Debit(ctx context.Context, userID uint, amount decimal.Decimal) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND wallet_balance >= ?", userID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("debit wallet of user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := s.ensureUser(ctx, userID); err != nil {
			return 0, err
		}
	}
	return res.RowsAffected, nil
}

// Credit adds amount to the balance unconditionally
func (s *WalletStore) Credit(ctx context.Context, userID uint, amount decimal.Decimal) error {
	res := s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("credit wallet of user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Balance reads the current balance
func (s *WalletStore) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Select("id", "wallet_balance").First(&user, userID).Error
	if err != nil {
		return decimal.Zero, notFound(err, domain.ErrUserNotFound)
	}
	return user.WalletBalance, nil
}

func (s *WalletStore) ensureUser(ctx context.Context, userID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}
	if count == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
