package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role values stored on a User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered account, either an administrator or a driver.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"uniqueIndex;size:80;not null"`
	FullName     string `gorm:"size:120;not null"`
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         string `gorm:"size:10;not null;default:user"`
	PhoneNumber  string `gorm:"size:20"`
	Address      string `gorm:"size:200"`
	Pincode      string `gorm:"size:6"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Vehicles     []Vehicle     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reservations []Reservation `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given plaintext matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
