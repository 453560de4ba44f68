package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles a user can hold
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model
type User struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                                        // Primary key
	Email         string          `gorm:"size:191;uniqueIndex;not null" json:"email"`                  // Login identity
	Username      string          `gorm:"size:64;uniqueIndex;not null" json:"username"`                // Unique username
	PasswordHash  string          `gorm:"not null" json:"-"`                                           // bcrypt hash, never serialized
	DisplayName   string          `gorm:"size:128" json:"display_name"`                                // Name shown in the storefront
	Role          string          `gorm:"size:16;default:user" json:"role"`                            // Role: user or admin
	WalletBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"wallet_balance"` // Mutated only through the wallet store
	CreatedAt     time.Time       `json:"created_at"`                                                  // Signup time
}

// IsAdmin reports whether the user may access the admin views
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
