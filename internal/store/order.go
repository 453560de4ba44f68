package store

import (
	"context"
	"fmt"
	"time"

	"gamevault/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStore persists completed purchases
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore returns an order store bound to db
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// WithTx returns a copy of the store that runs every query inside tx
func (s *OrderStore) WithTx(tx *gorm.DB) *OrderStore {
	return &OrderStore{db: tx}
}

// Create persists a new order together with its items and returns it with
// its generated id. The amount is not checked against anything here.
func (s *OrderStore) Create(ctx context.Context, userID uint, total decimal.Decimal, createdAt time.Time, items []domain.OrderItem) (*domain.Order, error) {
	order := domain.Order{
		UserID:      userID,
		TotalAmount: total,
		CreatedAt:   createdAt,
		Items:       items,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create order for user %d: %w", userID, err)
	}
	return &order, nil
}

// Get loads one order with its items
func (s *OrderStore) Get(ctx context.Context, orderID uint) (*domain.Order, error) {
	var order domain.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	return &order, nil
}

// All lists every order, oldest first
func (s *OrderStore) All(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.db.WithContext(ctx).Preload("Items").Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ByUser lists the orders of one user, newest first
func (s *OrderStore) ByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders of user %d: %w", userID, err)
	}
	return orders, nil
}
