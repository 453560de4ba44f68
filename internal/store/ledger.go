package store

import (
	"context"
	"fmt"
	"time"

	"gamevault/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerStore is the append-only record of monetary events.
// It has no update or delete methods.
type LedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore returns a ledger store bound to db
func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// WithTx returns a copy of the store that runs every query inside tx
func (s *LedgerStore) WithTx(tx *gorm.DB) *LedgerStore {
	return &LedgerStore{db: tx}
}

// Append records one immutable entry
func (s *LedgerStore) Append(ctx context.Context, userID uint, orderID *uint, kind domain.TransactionKind, amount decimal.Decimal, createdAt time.Time) (*domain.Transaction, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("append ledger entry: unknown kind %q", kind)
	}
	entry := domain.Transaction{
		OrderID:   orderID,
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: createdAt,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("append %s entry for user %d: %w", kind, userID, err)
	}
	return &entry, nil
}

// Get loads one entry
func (s *LedgerStore) Get(ctx context.Context, id uint) (*domain.Transaction, error) {
	var entry domain.Transaction
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}
	return &entry, nil
}

// All lists every entry in insertion order
func (s *LedgerStore) All(ctx context.Context) ([]domain.Transaction, error) {
	var entries []domain.Transaction
	if err := s.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	return entries, nil
}

// ByUser lists the entries of one user, newest first
func (s *LedgerStore) ByUser(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	var entries []domain.Transaction
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list ledger of user %d: %w", userID, err)
	}
	return entries, nil
}

// LedgerFilter narrows an admin listing. Zero values mean no filter.
type LedgerFilter struct {
	UserID   uint
	Kind     domain.TransactionKind
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Page returns one page of entries matching f, newest first, and the total match count
func (s *LedgerStore) Page(ctx context.Context, f LedgerFilter) ([]domain.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.Transaction{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Kind != "" {
		query = query.Where("kind = ?", f.Kind)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}
	page, size := normalizePage(f.Page, f.PageSize)
	var entries []domain.Transaction
	if err := query.Order("created_at desc, id desc").Offset((page - 1) * size).Limit(size).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, total, nil
}

// Page sizes accepted by the listing methods
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}

// Revenue sums every Purchase entry. An empty ledger yields zero.
func (s *LedgerStore) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("SUM(amount)").
		Where("kind = ?", domain.KindPurchase).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}
