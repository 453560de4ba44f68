package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game Model
type Game struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	Title       string          `gorm:"size:191;not null" json:"title"`           // Catalog title
	Description string          `gorm:"type:text" json:"description"`             // Long description
	Developer   string          `gorm:"size:128" json:"developer"`                // Studio name
	Platform    string          `gorm:"size:64" json:"platform"`                  // e.g. PC, PS5
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // Non-negative price
	ReleaseDate *time.Time      `json:"release_date,omitempty"`                   // Optional release date
	CreatedAt   time.Time       `json:"created_at"`                               // Catalog insertion time
}

// SumPrices returns the total price of the given games
func SumPrices(games []Game) decimal.Decimal {
	total := decimal.Zero
	for _, g := range games {
		total = total.Add(g.Price)
	}
	return total
}
