package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"parking-reservation-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListNonAdminUsers(ctx context.Context) ([]model.User, error)
	EnsureAdmin(ctx context.Context, email, password string) error

	// Lot capacity management
	CreateLot(ctx context.Context, spec LotSpec) (*model.ParkingLot, error)
	UpdateLot(ctx context.Context, lotID int64, spec LotUpdate) (*model.ParkingLot, error)
	DeleteLot(ctx context.Context, lotID int64) error
	DeleteSpot(ctx context.Context, spotID int64) error
	GetLot(ctx context.Context, lotID int64) (*model.ParkingLot, error)
	ListLots(ctx context.Context) ([]model.ParkingLot, error)
	SearchLots(ctx context.Context, query string) ([]model.ParkingLot, error)
	AdminSearch(ctx context.Context, searchType, key, value string) (any, error)

	// Reservation lifecycle
	BookSpot(ctx context.Context, userID string, req BookingRequest) (*model.Reservation, error)
	ReleaseReservation(ctx context.Context, userID string, reservationID int64, leavingAt time.Time) (*model.Reservation, error)
	RecordPayment(ctx context.Context, reservationID int64, amount float64, method string) (*model.Payment, error)
	ListUserReservations(ctx context.Context, userID string) ([]model.Reservation, error)
	ActiveReservationForSpot(ctx context.Context, spotID int64) (*model.Reservation, error)
	GetVehicle(ctx context.Context, vehicleNumber string) (*model.Vehicle, error)

	// Aggregates
	AdminSummary(ctx context.Context) (*AdminSummary, error)
	UserSummary(ctx context.Context, userID string, window time.Duration) (*UserSummary, error)

	// Background job queries
	LotsCreatedSince(ctx context.Context, since time.Time) ([]model.ParkingLot, error)
	UsersInactiveSince(ctx context.Context, since time.Time) ([]model.User, error)
	MonthlyActivity(ctx context.Context, userID string, start, end time.Time) (*MonthlyActivity, error)
	ExportRows(ctx context.Context, userID string) ([]ExportRow, error)

	// Credential revocation
	RevokeToken(ctx context.Context, jti string) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	PruneRevokedTokens(ctx context.Context, olderThan time.Time) (int64, error)

	// DB exposes the underlying connection for middleware and tests.
	DB() *gorm.DB
}

// LotSpec carries the fields needed to create a parking lot.
type LotSpec struct {
	PrimeLocationName    string
	City                 string
	State                string
	District             string
	PinCode              string
	PricePerHour         float64
	FloorLevel           string
	MaximumNumberOfSpots int
	OpenTime             string
	CloseTime            string
}

// LotUpdate carries the editable fields of an existing lot.
type LotUpdate struct {
	PricePerHour         float64
	MaximumNumberOfSpots int
	OpenTime             string
	CloseTime            string
}

// BookingRequest carries the fields needed to book a spot. The vehicle
// detail fields are only used when the vehicle is seen for the first time.
type BookingRequest struct {
	SpotID        int64
	VehicleNumber string
	FuelType      string
	Brand         string
	Model         string
	Color         string
}

// PaymentCounts summarizes payments by terminal status.
type PaymentCounts struct {
	Paid    int64 `json:"paid"`
	Pending int64 `json:"pending"`
}

// AdminSummary is the cached admin dashboard aggregate.
type AdminSummary struct {
	Lots           []model.ParkingLot `json:"lots"`
	PaymentSummary PaymentCounts      `json:"payment_summary"`
}

// UserSummary is the cached per-user aggregate over a trailing window.
type UserSummary struct {
	TotalBookings      int64   `json:"total_bookings"`
	TotalSpent         float64 `json:"total_spent"`
	FavoriteLot        string  `json:"favorite_lot"`
	ActiveReservations int64   `json:"active_reservations"`
	WindowDays         int     `json:"window_days"`
}

// MonthlyActivity aggregates one user's reservations over a calendar month.
type MonthlyActivity struct {
	TotalBookings int64
	TotalSpent    float64
	MostUsedLot   string
	PeakWeekday   string
	AvgStay       time.Duration
}

// ExportRow is a single line of a user's reservation history export.
type ExportRow struct {
	LotID            int64
	SpotNumber       string
	ParkingTimestamp time.Time
	LeavingTimestamp *time.Time
	Amount           float64
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying gorm connection.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
