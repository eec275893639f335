package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-reservation-backend/internal/model"
)

// CreateUser registers a new account. Email and username must be unique.
func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).
			Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("an account with email %s already exists: %w", u.Email, ErrConflict)
		}

		if err := tx.Model(&model.User{}).
			Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("username %s is already taken: %w", u.Username, ErrConflict)
		}

		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if u.Role == "" {
			u.Role = model.RoleUser
		}
		return tx.Create(u).Error
	})
}

// GetUserByID fetches a user by primary key.
func (s *gormStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail fetches a user by email address.
func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListNonAdminUsers returns every non-admin account ordered by full name.
func (s *gormStore) ListNonAdminUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("role <> ?", model.RoleAdmin).
		Order("full_name").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// EnsureAdmin creates the bootstrap administrator account if it does not
// exist yet. Called once at startup.
func (s *gormStore) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := model.User{
		ID:          uuid.NewString(),
		Username:    "admin",
		FullName:    "Admin",
		Email:       email,
		Role:        model.RoleAdmin,
		PhoneNumber: "1234567890",
		Address:     "Admin Address",
		Pincode:     "123456",
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("bootstrap admin account created for %s", email)
	return nil
}
