package model

import "time"

// Vehicle is keyed by its registration plate and belongs to exactly one user.
// Vehicles are auto-enrolled the first time they are used in a booking.
type Vehicle struct {
	VehicleNumber    string `gorm:"primaryKey;size:20"`
	UserID           string `gorm:"index;size:36;not null"`
	FuelType         string `gorm:"size:10"`
	Brand            string `gorm:"size:50"`
	Model            string `gorm:"size:50"`
	Color            string `gorm:"size:30"`
	RegistrationDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Associations
	Reservations []Reservation `gorm:"foreignKey:VehicleNumber;references:VehicleNumber"`
}
