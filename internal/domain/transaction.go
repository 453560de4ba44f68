package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind describes the monetary event a ledger entry records
type TransactionKind string

// Ledger entry kinds
const (
	KindPurchase TransactionKind = "Purchase"
	KindTopUp    TransactionKind = "TopUp"
)

// Valid reports whether k is a known kind
func (k TransactionKind) Valid() bool {
	return k == KindPurchase || k == KindTopUp
}

// Transaction Model. Ledger entries are append-only; Amount is the positive
// magnitude of the wallet impact, the kind gives its direction.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   *uint           `gorm:"index" json:"order_id"` // Set for purchases only
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Kind      TransactionKind `gorm:"size:16;index;not null" json:"kind"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}
