// Package storetest opens a throwaway migrated database for package tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gamevault/internal/db"
	"gamevault/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every seeded user
const Password = "correct-horse"

// NewDB returns a migrated SQLite database private to t. The pool holds a
// single connection so concurrent writers queue instead of failing with
// SQLITE_BUSY.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gamevault.db")
	gdb, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// SeedUser inserts a user with the given balance and returns it
func SeedUser(t *testing.T, gdb *gorm.DB, username, balance string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{
		Email:         username + "@example.com",
		Username:      username,
		DisplayName:   username,
		PasswordHash:  string(hash),
		Role:          domain.RoleUser,
		WalletBalance: decimal.RequireFromString(balance),
	}
	if err := gdb.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// SeedGame inserts a game with the given price and returns it
func SeedGame(t *testing.T, gdb *gorm.DB, title, price string) *domain.Game {
	t.Helper()

	game := &domain.Game{Title: title, Platform: "PC", Price: decimal.RequireFromString(price)}
	if err := gdb.Create(game).Error; err != nil {
		t.Fatalf("seed game %s: %v", title, err)
	}
	return game
}

// Balance reads a user's stored balance straight from the table
func Balance(t *testing.T, gdb *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()

	var user domain.User
	if err := gdb.First(&user, userID).Error; err != nil {
		t.Fatalf("load user %d: %v", userID, err)
	}
	return user.WalletBalance
}

// Count returns the number of rows of model matching the optional condition
func Count(t *testing.T, gdb *gorm.DB, model any, where ...any) int64 {
	t.Helper()

	var n int64
	q := gdb.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
