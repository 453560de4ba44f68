package api

import (
	"time"

	"gamevault/internal/checkout"
	"gamevault/internal/middleware"
	"gamevault/internal/store"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs from the process
type Deps struct {
	DB             *gorm.DB
	Redis          *redis.Client     // nil disables caching
	Checkout       *checkout.Service // built on DB when nil
	JWTSecret      string
	JWTTTL         time.Duration
	CacheTTL       time.Duration
	Limiter        *middleware.RateLimiter // nil disables rate limiting
	TrustedProxies []string
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(d Deps) (*gin.Engine, error) {
	users := store.NewUserStore(d.DB)
	games := store.NewGameStore(d.DB)
	carts := store.NewCartStore(d.DB)
	orders := store.NewOrderStore(d.DB)
	ledger := store.NewLedgerStore(d.DB)
	if d.Checkout == nil {
		d.Checkout = checkout.NewService(d.DB, nil)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if d.Limiter != nil {
		limit = middleware.RateLimit(d.Limiter)
	}
	auth := middleware.JWTAuthMiddleware(d.JWTSecret)

	// Public routes
	r.POST("/users", RegisterHandler(users, d.Redis))
	r.POST("/login", limit, LoginHandler(users, d.JWTSecret, d.JWTTTL))
	r.GET("/games", ListGamesHandler(games, d.Redis, d.CacheTTL))
	r.GET("/games/:id", GetGameHandler(games))

	// Storefront routes (protected by JWT)
	user := r.Group("/")
	user.Use(auth)
	user.GET("/me", ProfileHandler(users, d.Redis, d.CacheTTL))
	user.GET("/cart", GetCartHandler(carts))
	user.DELETE("/cart", ClearCartHandler(carts))
	user.POST("/cart/items", AddToCartHandler(carts))
	user.DELETE("/cart/items/:gameID", RemoveFromCartHandler(carts))
	user.POST("/checkout", limit, CheckoutHandler(d.Checkout, d.Redis))
	user.POST("/wallet/topup", TopUpHandler(d.Checkout, d.Redis))
	user.GET("/orders", MyOrdersHandler(orders))
	user.GET("/transactions", MyTransactionsHandler(ledger))

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(auth, middleware.AdminOnlyMiddleware(users))
	admin.GET("/summary", SummaryHandler(users, games, ledger, d.Redis, d.CacheTTL))
	admin.GET("/users", ListUsersHandler(users, d.Redis, d.CacheTTL))
	admin.GET("/orders", ListOrdersHandler(orders))
	admin.GET("/orders/:id", GetOrderHandler(orders))
	admin.GET("/transactions", ListTransactionsHandler(ledger, d.Redis, d.CacheTTL))
	admin.GET("/transactions/:id", GetTransactionHandler(ledger))
	admin.POST("/games", CreateGameHandler(games, d.Redis))

	return r, nil
}
