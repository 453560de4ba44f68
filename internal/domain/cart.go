package domain

import "time"

// Cart Model. A user owns at most one cart, created on first access.
type Cart struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"` // Owner, also the cart key
	CreatedAt time.Time `json:"created_at"`
}

// CartItem Model, unique per user and game
type CartItem struct {
	UserID  uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	GameID  uint      `gorm:"primaryKey;autoIncrement:false" json:"game_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}
