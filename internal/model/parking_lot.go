package model

import "time"

// ParkingLot is a physical facility containing individually bookable spots.
type ParkingLot struct {
	ID                   int64   `gorm:"primaryKey"`
	PrimeLocationName    string  `gorm:"size:100;not null"`
	PinCode              string  `gorm:"size:20;index;not null"`
	City                 string  `gorm:"size:50;index;not null"`
	State                string  `gorm:"size:50;index;not null"`
	District             string  `gorm:"size:50;not null"`
	Address              string  `gorm:"size:255;not null"`
	PricePerHour         float64 `gorm:"not null"`
	FloorLevel           string  `gorm:"size:10;default:Ground"`
	MaximumNumberOfSpots int     `gorm:"not null"`
	Revenue              float64 `gorm:"default:0"`
	IsActive             bool    `gorm:"default:true"`
	OpenTime             string  `gorm:"size:8"`
	CloseTime            string  `gorm:"size:8"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Associations
	ParkingSpots []ParkingSpot `gorm:"foreignKey:LotID;constraint:OnDelete:CASCADE"`
}
