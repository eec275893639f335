package model

import "time"

// Reservation status values. Transitions are monotonic: active -> completed.
const (
	ReservationActive    = "active"
	ReservationCompleted = "completed"
)

// Reservation records a vehicle occupying a spot for a time interval.
// ParkingCostPerHour is frozen at booking time and does not track later
// changes to the lot's price.
type Reservation struct {
	ID                 int64      `gorm:"primaryKey"`
	SpotID             int64      `gorm:"index;not null"`
	UserID             string     `gorm:"index;size:36;not null"`
	VehicleNumber      string     `gorm:"size:20;not null"`
	Location           string     `gorm:"size:255;not null"`
	ParkingTimestamp   time.Time  `gorm:"not null"`
	LeavingTimestamp   *time.Time
	ParkingCostPerHour float64    `gorm:"not null"`
	Status             string     `gorm:"size:10;not null;default:active"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Associations
	Spot    ParkingSpot `gorm:"foreignKey:SpotID"`
	User    User        `gorm:"foreignKey:UserID"`
	Payment *Payment    `gorm:"foreignKey:ReservationID"`
}
