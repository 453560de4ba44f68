package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"gamevault/internal/domain" // Importing domain models
	"gamevault/internal/store"
	"gamevault/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	Role          string    `json:"role"`
	WalletBalance string    `json:"wallet_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type userPage struct {
	Users      []UserAdminResponse `json:"users"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"total_pages"`
	Cached     bool                `json:"cached"`
}

// ListUsersHandler returns one page of users with their balances
func ListUsersHandler(users *store.UserStore, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pageParams(c)
		cacheKey := utils.AdminUsersKey(page, pageSize)

		var cached userPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}

		list, total, err := users.Page(ctx, page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := userPage{
			Users:      make([]UserAdminResponse, len(list)),
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		}
		for i, u := range list {
			resp.Users[i] = UserAdminResponse{
				ID:            u.ID,
				Email:         u.Email,
				Username:      u.Username,
				DisplayName:   u.DisplayName,
				Role:          u.Role,
				WalletBalance: u.WalletBalance.StringFixed(2),
				CreatedAt:     u.CreatedAt,
			}
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, ttl)
		c.JSON(http.StatusOK, resp)
	}
}

// ListOrdersHandler returns every order with its items
func ListOrdersHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.All(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

// GetOrderHandler returns one order with its items
func GetOrderHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		order, err := orders.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type transactionPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	Total        int64                `json:"total"`
	TotalPages   int                  `json:"total_pages"`
	Cached       bool                 `json:"cached"`
}

// parseTimeParam accepts RFC 3339 timestamps or plain dates
func parseTimeParam(v string) (*time.Time, bool) {
	if v == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

// ListTransactionsHandler returns ledger entries, with optional filtering by user, type, or date
func ListTransactionsHandler(ledger *store.LedgerStore, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pageParams(c)
		filter := store.LedgerFilter{Page: page, PageSize: pageSize}

		if v := c.Query("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
				return
			}
			filter.UserID = uint(id)
		}
		if v := c.Query("type"); v != "" {
			kind := domain.TransactionKind(v)
			if !kind.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Purchase or TopUp"})
				return
			}
			filter.Kind = kind
		}
		var ok bool
		if filter.From, ok = parseTimeParam(c.Query("from")); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from"})
			return
		}
		if filter.To, ok = parseTimeParam(c.Query("to")); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to"})
			return
		}

		// Build cache key from the normalized filter
		keyParts := []string{
			"user_id=" + c.Query("user_id"),
			"type=" + c.Query("type"),
			"from=" + c.Query("from"),
			"to=" + c.Query("to"),
			"page=" + strconv.Itoa(page),
			"page_size=" + strconv.Itoa(pageSize),
		}
		cacheKey := utils.AdminTransactionsKey(strings.Join(keyParts, ":"))

		var cached transactionPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}

		entries, total, err := ledger.Page(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := transactionPage{
			Transactions: entries,
			Page:         page,
			PageSize:     pageSize,
			Total:        total,
			TotalPages:   totalPages(total, pageSize),
		}
		if err := utils.SetCache(ctx, rdb, cacheKey, resp, ttl); err != nil {
			logrus.WithError(err).Warn("Failed to cache transactions page")
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetTransactionHandler returns one ledger entry
func GetTransactionHandler(ledger *store.LedgerStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		entry, err := ledger.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// SummaryResponse is the admin dashboard aggregate
type SummaryResponse struct {
	Users   int64  `json:"users"`   // Registered accounts
	Games   int64  `json:"games"`   // Catalog size
	Revenue string `json:"revenue"` // Sum of Purchase entries
	Cached  bool   `json:"cached"`
}

// SummaryHandler returns user and game counts plus total revenue, read through the cache
func SummaryHandler(users *store.UserStore, games *store.GameStore, ledger *store.LedgerStore, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached SummaryResponse
		if found, err := utils.GetCache(ctx, rdb, utils.AdminSummaryKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}

		userCount, err := users.Count(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		gameCount, err := games.Count(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		revenue, err := ledger.Revenue(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := SummaryResponse{Users: userCount, Games: gameCount, Revenue: revenue.StringFixed(2)}
		_ = utils.SetCache(ctx, rdb, utils.AdminSummaryKey, resp, ttl)
		c.JSON(http.StatusOK, resp)
	}
}
