package api

import (
	"net/http" // HTTP status codes
	"time"

	"gamevault/internal/checkout"
	"gamevault/internal/domain"
	"gamevault/internal/store"
	"gamevault/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TopUpRequest is the request body for adding funds.
// Amount accepts a JSON number or a decimal string.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ProfileMaxTTL caps how long a cached profile lives. A read that loaded the
// row before a checkout can store the old balance after the checkout's
// invalidation; the cap bounds that window.
const ProfileMaxTTL = 10 * time.Second

// ProfileHandler returns the caller's profile and balance, read through the cache
func ProfileHandler(users *store.UserStore, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	ttl = min(ttl, ProfileMaxTTL)
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		key := utils.ProfileKey(userID)
		var cached domain.User
		if found, err := utils.GetCache(ctx, rdb, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"user": cached, "cached": true})
			return
		}
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, key, user, ttl)
		c.JSON(http.StatusOK, gin.H{"user": user, "cached": false})
	}
}

// CheckoutHandler turns the caller's cart into an order paid from the wallet
func CheckoutHandler(svc *checkout.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		order, err := svc.PlaceOrder(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := utils.InvalidateWallet(ctx, rdb, userID); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to invalidate wallet cache")
		}
		c.JSON(http.StatusCreated, order)
	}
}

// TopUpHandler credits the caller's wallet
func TopUpHandler(svc *checkout.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req TopUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ctx := c.Request.Context()
		entry, err := svc.AddBalance(ctx, userID, req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := utils.InvalidateWallet(ctx, rdb, userID); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to invalidate wallet cache")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Top-up successful", "transaction": entry})
	}
}

// MyOrdersHandler lists the caller's orders, newest first
func MyOrdersHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		list, err := orders.ByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

// MyTransactionsHandler lists the caller's ledger entries, newest first
func MyTransactionsHandler(ledger *store.LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		entries, err := ledger.ByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": entries})
	}
}
