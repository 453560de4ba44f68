package api

import (
	"net/http" // HTTP status codes
	"strings"
	"time"

	"gamevault/internal/domain"
	"gamevault/internal/store"
	"gamevault/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ListGamesHandler returns the catalog, read through the Redis cache
func ListGamesHandler(games *store.GameStore, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.Game
		if found, err := utils.GetCache(ctx, rdb, utils.GamesKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"games": cached, "cached": true})
			return
		}
		all, err := games.All(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := utils.SetCache(ctx, rdb, utils.GamesKey, all, ttl); err != nil {
			logrus.WithError(err).Warn("Failed to cache catalog")
		}
		c.JSON(http.StatusOK, gin.H{"games": all, "cached": false})
	}
}

// GetGameHandler returns one catalog entry
func GetGameHandler(games *store.GameStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		game, err := games.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

// CreateGameRequest is the admin body for a new catalog entry
type CreateGameRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Developer   string          `json:"developer"`
	Platform    string          `json:"platform"`
	Price       decimal.Decimal `json:"price"`
	ReleaseDate *time.Time      `json:"release_date"`
}

// CreateGameHandler adds a game to the catalog and drops the cached listing
func CreateGameHandler(games *store.GameStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateGameRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		game := domain.Game{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Developer:   req.Developer,
			Platform:    req.Platform,
			Price:       req.Price,
			ReleaseDate: req.ReleaseDate,
		}
		ctx := c.Request.Context()
		if err := games.Create(ctx, &game); err != nil {
			respondError(c, err)
			return
		}
		if err := utils.DeleteCache(ctx, rdb, utils.GamesKey, utils.AdminSummaryKey); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate catalog cache")
		}
		logrus.WithFields(logrus.Fields{"game_id": game.ID, "price": game.Price.StringFixed(2)}).Info("Game added")
		c.JSON(http.StatusCreated, game)
	}
}
