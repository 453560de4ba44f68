package store

import (
	"context"
	"fmt"

	"gamevault/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStore keeps the per-user set of games selected for purchase
type CartStore struct {
	db *gorm.DB
}

// NewCartStore returns a cart store bound to db
func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// WithTx returns a copy of the store that runs every query inside tx
func (s *CartStore) WithTx(tx *gorm.DB) *CartStore {
	return &CartStore{db: tx}
}

// Get returns the user's cart, creating an empty one on first access
func (s *CartStore) Get(ctx context.Context, userID uint) (*domain.Cart, error) {
	db := s.db.WithContext(ctx)
	// Two requests may race to create the cart; the loser's insert is ignored
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.Cart{UserID: userID}).Error; err != nil {
		return nil, fmt.Errorf("create cart for user %d: %w", userID, err)
	}
	var cart domain.Cart
	if err := db.First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("load cart for user %d: %w", userID, err)
	}
	return &cart, nil
}

// Add puts a game into the user's cart. Adding a game twice is a no-op.
func (s *CartStore) Add(ctx context.Context, userID, gameID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Game{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
		return fmt.Errorf("check game %d: %w", gameID, err)
	}
	if count == 0 {
		return domain.ErrGameNotFound
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	item := domain.CartItem{UserID: userID, GameID: gameID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
		return fmt.Errorf("add game %d to cart of user %d: %w", gameID, userID, err)
	}
	return nil
}

// Remove takes a game out of the user's cart. Removing a non-member is a no-op.
func (s *CartStore) Remove(ctx context.Context, userID, gameID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&domain.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("remove game %d from cart of user %d: %w", gameID, userID, err)
	}
	return nil
}

// Items resolves the cart entries to full game records.
// An empty cart is reported as domain.ErrCartEmpty, never as an empty slice.
func (s *CartStore) Items(ctx context.Context, userID uint) ([]domain.Game, error) {
	var games []domain.Game
	err := s.db.WithContext(ctx).
		Model(&domain.Game{}).
		Select("games.*").
		Joins("JOIN cart_items ON cart_items.game_id = games.id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.added_at, games.id").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list cart of user %d: %w", userID, err)
	}
	if len(games) == 0 {
		return nil, domain.ErrCartEmpty
	}
	return games, nil
}

// Clear drains the cart. The cart itself is kept.
func (s *CartStore) Clear(ctx context.Context, userID uint) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart of user %d: %w", userID, err)
	}
	return nil
}

// RemoveGames deletes exactly the given entries and reports how many existed
func (s *CartStore) RemoveGames(ctx context.Context, userID uint, gameIDs []uint) (int64, error) {
	if len(gameIDs) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id IN ?", userID, gameIDs).
		Delete(&domain.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("remove purchased games from cart of user %d: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
