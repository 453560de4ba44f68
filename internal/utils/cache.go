package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"
	"strconv"
	"time" // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache key layout
const (
	GamesKey         = "games:all"
	AdminSummaryKey  = "admin:summary"
	adminUsersPrefix = "admin:users:"
	adminTxPrefix    = "admin:txs:"
)

// ProfileKey is the cache key of a user's profile and balance
func ProfileKey(userID uint) string {
	return "profile:user:" + strconv.FormatUint(uint64(userID), 10)
}

// AdminUsersKey is the cache key of one page of the admin user listing
func AdminUsersKey(page, size int) string {
	return adminUsersPrefix + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(size)
}

// AdminTransactionsKey is the cache key of one filtered admin ledger listing
func AdminTransactionsKey(query string) string {
	return adminTxPrefix + query
}

// GetCache retrieves a value from Redis and unmarshals it into dest.
// A nil client behaves as an empty cache.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// DeletePrefix deletes every key starting with prefix
func DeletePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	if rdb == nil {
		return nil
	}
	var keys []string
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return DeleteCache(ctx, rdb, keys...)
}

// InvalidateWallet drops every cached view that shows the user's balance or ledger.
// Called after a checkout or top-up commits.
func InvalidateWallet(ctx context.Context, rdb *redis.Client, userID uint) error {
	return errors.Join(
		DeleteCache(ctx, rdb, ProfileKey(userID), AdminSummaryKey),
		DeletePrefix(ctx, rdb, adminUsersPrefix),
		DeletePrefix(ctx, rdb, adminTxPrefix),
	)
}

// InvalidateAccounts drops the cached views that count or list users.
// Called after a signup.
func InvalidateAccounts(ctx context.Context, rdb *redis.Client) error {
	return errors.Join(
		DeleteCache(ctx, rdb, AdminSummaryKey),
		DeletePrefix(ctx, rdb, adminUsersPrefix),
	)
}
