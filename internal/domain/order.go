package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order Model. Created once per successful checkout and never modified.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem records a game bought by an order and its price at checkout time
type OrderItem struct {
	ID      uint            `gorm:"primaryKey" json:"-"`
	OrderID uint            `gorm:"index;not null" json:"order_id"`
	GameID  uint            `gorm:"not null" json:"game_id"`
	Price   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
