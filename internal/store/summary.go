package store

import (
	"context"
	"time"

	"parking-reservation-backend/internal/model"
)

// AdminSummary aggregates the admin dashboard data: every lot plus payment
// counts by status. The result is cached by the caller.
func (s *gormStore) AdminSummary(ctx context.Context) (*AdminSummary, error) {
	db := s.db.WithContext(ctx)

	var lots []model.ParkingLot
	if err := db.Preload("ParkingSpots").Order("prime_location_name").Find(&lots).Error; err != nil {
		return nil, err
	}

	var paid, pending int64
	if err := db.Model(&model.Payment{}).
		Where("payment_status = ?", model.PaymentPaid).Count(&paid).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).
		Where("payment_status = ?", model.PaymentPending).Count(&pending).Error; err != nil {
		return nil, err
	}

	return &AdminSummary{
		Lots:           lots,
		PaymentSummary: PaymentCounts{Paid: paid, Pending: pending},
	}, nil
}

// UserSummary aggregates one user's booking activity over a trailing window.
func (s *gormStore) UserSummary(ctx context.Context, userID string, window time.Duration) (*UserSummary, error) {
	db := s.db.WithContext(ctx)
	since := time.Now().UTC().Add(-window)

	var reservations []model.Reservation
	if err := db.Preload("Spot").
		Where("user_id = ? AND parking_timestamp >= ?", userID, since).
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	summary := &UserSummary{
		TotalBookings: int64(len(reservations)),
		WindowDays:    int(window.Hours() / 24),
	}

	lotCounts := make(map[int64]int)
	for _, res := range reservations {
		summary.TotalSpent += res.ParkingCostPerHour
		if res.Status == model.ReservationActive {
			summary.ActiveReservations++
		}
		lotCounts[res.Spot.LotID]++
	}

	if favorite := mostFrequentLot(lotCounts); favorite != 0 {
		var lot model.ParkingLot
		if err := db.First(&lot, favorite).Error; err == nil {
			summary.FavoriteLot = lot.PrimeLocationName
		}
	}
	return summary, nil
}

// LotsCreatedSince returns lots created at or after the given time.
func (s *gormStore) LotsCreatedSince(ctx context.Context, since time.Time) ([]model.ParkingLot, error) {
	var lots []model.ParkingLot
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// UsersInactiveSince returns non-admin users with no reservation made at or
// after the given time.
func (s *gormStore) UsersInactiveSince(ctx context.Context, since time.Time) ([]model.User, error) {
	activeUserIDs := s.db.Model(&model.Reservation{}).
		Select("DISTINCT user_id").
		Where("parking_timestamp >= ?", since)

	var users []model.User
	err := s.db.WithContext(ctx).
		Where("role <> ?", model.RoleAdmin).
		Where("id NOT IN (?)", activeUserIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// MonthlyActivity aggregates one user's reservations inside [start, end].
// Returns nil when the user made no reservations in the period.
func (s *gormStore) MonthlyActivity(ctx context.Context, userID string, start, end time.Time) (*MonthlyActivity, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).Preload("Spot").
		Where("user_id = ? AND parking_timestamp BETWEEN ? AND ?", userID, start, end).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, nil
	}

	activity := &MonthlyActivity{TotalBookings: int64(len(reservations))}

	lotCounts := make(map[int64]int)
	weekdayCounts := make(map[time.Weekday]int)
	var totalStay time.Duration
	var completed int

	for _, res := range reservations {
		activity.TotalSpent += res.ParkingCostPerHour
		lotCounts[res.Spot.LotID]++
		weekdayCounts[res.ParkingTimestamp.Weekday()]++
		if res.LeavingTimestamp != nil {
			totalStay += res.LeavingTimestamp.Sub(res.ParkingTimestamp)
			completed++
		}
	}

	if favorite := mostFrequentLot(lotCounts); favorite != 0 {
		var lot model.ParkingLot
		if err := s.db.WithContext(ctx).First(&lot, favorite).Error; err == nil {
			activity.MostUsedLot = lot.PrimeLocationName
		} else {
			activity.MostUsedLot = "N/A"
		}
	} else {
		activity.MostUsedLot = "N/A"
	}

	var peak time.Weekday
	var peakCount int
	for day, count := range weekdayCounts {
		if count > peakCount || (count == peakCount && day < peak) {
			peak, peakCount = day, count
		}
	}
	activity.PeakWeekday = peak.String()

	if completed > 0 {
		activity.AvgStay = totalStay / time.Duration(completed)
	}
	return activity, nil
}

// ExportRows returns a user's full reservation history, newest first,
// flattened for the CSV export job.
func (s *gormStore) ExportRows(ctx context.Context, userID string) ([]ExportRow, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Spot").Preload("Payment").
		Where("user_id = ?", userID).
		Order("parking_timestamp DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(reservations))
	for _, res := range reservations {
		row := ExportRow{
			LotID:            res.Spot.LotID,
			SpotNumber:       res.Spot.SpotNumber,
			ParkingTimestamp: res.ParkingTimestamp,
			LeavingTimestamp: res.LeavingTimestamp,
		}
		if res.Payment != nil {
			row.Amount = res.Payment.Amount
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mostFrequentLot returns the lot ID with the highest count, lowest ID on
// ties, or zero for an empty map.
func mostFrequentLot(counts map[int64]int) int64 {
	var best int64
	var bestCount int
	for lotID, count := range counts {
		if count > bestCount || (count == bestCount && (best == 0 || lotID < best)) {
			best, bestCount = lotID, count
		}
	}
	return best
}
