package model

import "time"

// Payment status values.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Payment belongs to exactly one reservation.
type Payment struct {
	ID               int64   `gorm:"primaryKey"`
	ReservationID    int64   `gorm:"index;not null"`
	Amount           float64 `gorm:"not null"`
	PaymentMethod    string  `gorm:"size:50;not null"`
	PaymentStatus    string  `gorm:"size:10;not null;default:pending"`
	PaymentTimestamp time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
