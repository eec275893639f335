package model

import "time"

// Spot status values.
const (
	SpotAvailable = "available"
	SpotOccupied  = "occupied"
)

// ParkingSpot is a single bookable unit within a lot. Spot numbers take the
// form "{lotID}-{n}" and are unique within their lot.
type ParkingSpot struct {
	ID         int64   `gorm:"primaryKey"`
	SpotNumber string  `gorm:"size:20;not null"`
	LotID      int64   `gorm:"index;not null"`
	Status     string  `gorm:"size:10;not null;default:available"`
	Revenue    float64 `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Lot          ParkingLot    `gorm:"foreignKey:LotID"`
	Reservations []Reservation `gorm:"foreignKey:SpotID"`
}
