package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gamevault/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore covers the account lookups the storefront needs
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a user store bound to db
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Register hashes password and creates the account with a zero balance
func (s *UserStore) Register(ctx context.Context, email, username, displayName, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     strings.ToLower(username),
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a prepared user row
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ? OR username = ?", user.Email, user.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return domain.ErrDuplicateUser
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID loads a user by id
func (s *UserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

// FindByEmail loads a user by email, case-insensitively
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

// Authenticate is the single credential check: email plus password.
// Unknown email and wrong password are reported the same way.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Page returns one page of users ordered by id and the total user count
func (s *UserStore) Page(ctx context.Context, page, size int) ([]domain.User, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	page, size = normalizePage(page, size)
	var users []domain.User
	if err := db.Order("id").Offset((page - 1) * size).Limit(size).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Count returns the number of registered users
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
