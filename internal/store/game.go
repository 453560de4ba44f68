package store

import (
	"context"
	"fmt"

	"gamevault/internal/domain"

	"gorm.io/gorm"
)

// GameStore is the read side of the catalog, plus the insert used to stock it
type GameStore struct {
	db *gorm.DB
}

// NewGameStore returns a game store bound to db
func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

// FindByID loads one game
func (s *GameStore) FindByID(ctx context.Context, id uint) (*domain.Game, error) {
	var game domain.Game
	if err := s.db.WithContext(ctx).First(&game, id).Error; err != nil {
		return nil, notFound(err, domain.ErrGameNotFound)
	}
	return &game, nil
}

// All lists the catalog ordered by title
func (s *GameStore) All(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	if err := s.db.WithContext(ctx).Order("title, id").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Create adds a game to the catalog
func (s *GameStore) Create(ctx context.Context, game *domain.Game) error {
	if game.Price.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("create game %q: %w", game.Title, err)
	}
	return nil
}

// Count returns the catalog size
func (s *GameStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Game{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}
