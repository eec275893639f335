package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"parking-reservation-backend/internal/model"
)

// bookAndRelease runs one full reservation cycle on the given spot.
func bookAndRelease(t *testing.T, s Store, userID string, spotID int64, vehicle string, stay time.Duration) *model.Reservation {
	t.Helper()
	ctx := context.Background()

	reservation, err := s.BookSpot(ctx, userID, BookingRequest{SpotID: spotID, VehicleNumber: vehicle})
	require.NoError(t, err)
	released, err := s.ReleaseReservation(ctx, userID, reservation.ID, reservation.ParkingTimestamp.Add(stay))
	require.NoError(t, err)
	return released
}

func backdateReservation(t *testing.T, gormDB *gorm.DB, id int64, at time.Time) {
	t.Helper()
	require.NoError(t, gormDB.Model(&model.Reservation{}).
		Where("id = ?", id).
		Update("parking_timestamp", at).Error)
}

func TestAdminSummary(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "summary-admin-user")
	lot, err := s.CreateLot(ctx, testLotSpec(2))
	require.NoError(t, err)
	spot := firstSpot(t, gormDB, lot.ID)

	reservation := bookAndRelease(t, s, user.ID, spot.ID, "TN10AA0001", time.Hour)
	_, err = s.RecordPayment(ctx, reservation.ID, 40, "card")
	require.NoError(t, err)

	summary, err := s.AdminSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Lots, 1)
	assert.Len(t, summary.Lots[0].ParkingSpots, 2)
	assert.Equal(t, int64(1), summary.PaymentSummary.Paid)
	assert.Equal(t, int64(0), summary.PaymentSummary.Pending)
}

func TestUserSummary(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "summary-user")
	lot, err := s.CreateLot(ctx, testLotSpec(2))
	require.NoError(t, err)

	spec := testLotSpec(1)
	spec.PrimeLocationName = "Airport Lot"
	spec.PinCode = "600027"
	otherLot, err := s.CreateLot(ctx, spec)
	require.NoError(t, err)

	var spots []model.ParkingSpot
	require.NoError(t, gormDB.Where("lot_id = ?", lot.ID).Find(&spots).Error)
	otherSpot := firstSpot(t, gormDB, otherLot.ID)

	bookAndRelease(t, s, user.ID, spots[0].ID, "TN11AA0001", time.Hour)
	bookAndRelease(t, s, user.ID, spots[1].ID, "TN11BB0002", time.Hour)
	_, err = s.BookSpot(ctx, user.ID, BookingRequest{SpotID: otherSpot.ID, VehicleNumber: "TN11CC0003"})
	require.NoError(t, err)

	// A reservation outside the window must not be counted.
	ancient := bookAndRelease(t, s, user.ID, spots[0].ID, "TN11DD0004", time.Hour)
	backdateReservation(t, gormDB, ancient.ID, time.Now().UTC().Add(-100*24*time.Hour))

	summary, err := s.UserSummary(ctx, user.ID, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalBookings)
	assert.Equal(t, int64(1), summary.ActiveReservations)
	assert.Equal(t, float64(120), summary.TotalSpent)
	assert.Equal(t, "Central Mall", summary.FavoriteLot)
	assert.Equal(t, 90, summary.WindowDays)
}

func TestUsersInactiveSince(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "admin@example.com", "supersecret"))
	activeUser := seedUser(t, s, "recently-active")
	idleUser := seedUser(t, s, "long-idle")

	lot, err := s.CreateLot(ctx, testLotSpec(1))
	require.NoError(t, err)
	spot := firstSpot(t, gormDB, lot.ID)
	bookAndRelease(t, s, activeUser.ID, spot.ID, "TN12AA0001", time.Hour)

	inactive, err := s.UsersInactiveSince(ctx, time.Now().UTC().Add(-3*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, idleUser.ID, inactive[0].ID)
}

func TestMonthlyActivity(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "monthly-user")
	lot, err := s.CreateLot(ctx, testLotSpec(2))
	require.NoError(t, err)

	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.July, 31, 23, 59, 59, 0, time.UTC)

	t.Run("no reservations yields nil", func(t *testing.T) {
		activity, err := s.MonthlyActivity(ctx, user.ID, start, end)
		require.NoError(t, err)
		assert.Nil(t, activity)
	})

	var spots []model.ParkingSpot
	require.NoError(t, gormDB.Where("lot_id = ?", lot.ID).Find(&spots).Error)

	first := bookAndRelease(t, s, user.ID, spots[0].ID, "TN13AA0001", 2*time.Hour)
	second := bookAndRelease(t, s, user.ID, spots[1].ID, "TN13BB0002", 4*time.Hour)

	// Move both into July and fix the stays relative to the new start.
	monday := time.Date(2026, time.July, 6, 9, 0, 0, 0, time.UTC)
	require.NoError(t, gormDB.Model(&model.Reservation{}).Where("id = ?", first.ID).
		Updates(map[string]any{"parking_timestamp": monday, "leaving_timestamp": monday.Add(2 * time.Hour)}).Error)
	require.NoError(t, gormDB.Model(&model.Reservation{}).Where("id = ?", second.ID).
		Updates(map[string]any{"parking_timestamp": monday.Add(24 * time.Hour), "leaving_timestamp": monday.Add(28 * time.Hour)}).Error)

	activity, err := s.MonthlyActivity(ctx, user.ID, start, end)
	require.NoError(t, err)
	require.NotNil(t, activity)
	assert.Equal(t, int64(2), activity.TotalBookings)
	assert.Equal(t, float64(80), activity.TotalSpent)
	assert.Equal(t, "Central Mall", activity.MostUsedLot)
	assert.Equal(t, 3*time.Hour, activity.AvgStay)
	// One Monday and one Tuesday booking; lowest weekday wins the tie.
	assert.Equal(t, time.Monday.String(), activity.PeakWeekday)
}

func TestExportRows(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "export-user")
	lot, err := s.CreateLot(ctx, testLotSpec(2))
	require.NoError(t, err)

	var spots []model.ParkingSpot
	require.NoError(t, gormDB.Where("lot_id = ?", lot.ID).Order("spot_number").Find(&spots).Error)

	released := bookAndRelease(t, s, user.ID, spots[0].ID, "TN14AA0001", time.Hour)
	_, err = s.RecordPayment(ctx, released.ID, 40, "upi")
	require.NoError(t, err)

	open, err := s.BookSpot(ctx, user.ID, BookingRequest{SpotID: spots[1].ID, VehicleNumber: "TN14BB0002"})
	require.NoError(t, err)
	backdateReservation(t, gormDB, open.ID, time.Now().UTC().Add(time.Hour))

	rows, err := s.ExportRows(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first: the open reservation leads.
	assert.Equal(t, spots[1].SpotNumber, rows[0].SpotNumber)
	assert.Nil(t, rows[0].LeavingTimestamp)
	assert.Equal(t, float64(0), rows[0].Amount)

	assert.Equal(t, spots[0].SpotNumber, rows[1].SpotNumber)
	assert.NotNil(t, rows[1].LeavingTimestamp)
	assert.Equal(t, float64(40), rows[1].Amount)
	assert.Equal(t, lot.ID, rows[1].LotID)
}
