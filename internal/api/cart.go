package api

import (
	"errors"
	"net/http" // HTTP status codes

	"gamevault/internal/domain"
	"gamevault/internal/store"

	"github.com/gin-gonic/gin" // Gin web framework
)

// AddToCartRequest names the game to add
type AddToCartRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}

// GetCartHandler returns the cart contents with their current total.
// An empty cart is a normal view here, not an error.
func GetCartHandler(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		games, err := carts.Items(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, domain.ErrCartEmpty) {
			respondError(c, err)
			return
		}
		if games == nil {
			games = []domain.Game{}
		}
		c.JSON(http.StatusOK, gin.H{
			"items": games,
			"total": domain.SumPrices(games).StringFixed(2),
		})
	}
}

// AddToCartHandler puts a game in the cart. Adding a game twice is a no-op.
func AddToCartHandler(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := carts.Add(c.Request.Context(), userID, req.GameID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game added to cart"})
	}
}

// RemoveFromCartHandler takes one game out of the cart
func RemoveFromCartHandler(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		gameID, ok := idParam(c, "gameID")
		if !ok {
			return
		}
		if err := carts.Remove(c.Request.Context(), userID, gameID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ClearCartHandler empties the cart
func ClearCartHandler(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		if err := carts.Clear(c.Request.Context(), userID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
