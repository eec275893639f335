package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"parking-reservation-backend/internal/model"
)

// BookSpot books a spot for a vehicle on behalf of userID. The vehicle is
// auto-enrolled if it has never been seen before. The spot status flip, the
// vehicle insert and the reservation insert commit as a single transaction.
//
// Conflicting bookings of the same spot are serialized by the conditional
// status update: whichever transaction flips available -> occupied first
// wins, the other observes zero affected rows and fails with ErrConflict.
func (s *gormStore) BookSpot(ctx context.Context, userID string, req BookingRequest) (*model.Reservation, error) {
	var reservation *model.Reservation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&model.Reservation{}).
			Where("vehicle_number = ? AND status = ?", req.VehicleNumber, model.ReservationActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("vehicle %s already has an active reservation: %w",
				req.VehicleNumber, ErrConflict)
		}

		var spot model.ParkingSpot
		if err := tx.Preload("Lot").First(&spot, req.SpotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parking spot %d: %w", req.SpotID, ErrNotFound)
			}
			return err
		}

		res := tx.Model(&model.ParkingSpot{}).
			Where("id = ? AND status = ?", spot.ID, model.SpotAvailable).
			Update("status", model.SpotOccupied)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("spot %s is already occupied: %w", spot.SpotNumber, ErrConflict)
		}

		var vehicleCount int64
		if err := tx.Model(&model.Vehicle{}).
			Where("vehicle_number = ?", req.VehicleNumber).
			Count(&vehicleCount).Error; err != nil {
			return err
		}
		if vehicleCount == 0 {
			vehicle := model.Vehicle{
				VehicleNumber:    req.VehicleNumber,
				UserID:           userID,
				FuelType:         req.FuelType,
				Brand:            req.Brand,
				Model:            req.Model,
				Color:            req.Color,
				RegistrationDate: time.Now().UTC(),
			}
			if err := tx.Create(&vehicle).Error; err != nil {
				return fmt.Errorf("failed to enroll vehicle %s: %w", req.VehicleNumber, err)
			}
		}

		reservation = &model.Reservation{
			SpotID:             spot.ID,
			UserID:             userID,
			VehicleNumber:      req.VehicleNumber,
			Location:           spot.Lot.Address,
			ParkingTimestamp:   time.Now().UTC(),
			ParkingCostPerHour: spot.Lot.PricePerHour,
			Status:             model.ReservationActive,
		}
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// ReleaseReservation completes an active reservation: sets the leaving
// timestamp, frees the spot and accrues the frozen hourly rate into both the
// spot's and the lot's running revenue.
func (s *gormStore) ReleaseReservation(ctx context.Context, userID string, reservationID int64, leavingAt time.Time) (*model.Reservation, error) {
	var reservation model.Reservation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
			}
			return err
		}
		if reservation.UserID != userID {
			return fmt.Errorf("reservation %d is not owned by the caller: %w",
				reservationID, ErrForbidden)
		}
		if reservation.Status == model.ReservationCompleted {
			return fmt.Errorf("reservation %d is already completed: %w",
				reservationID, ErrConflict)
		}

		reservation.LeavingTimestamp = &leavingAt
		reservation.Status = model.ReservationCompleted
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}

		// The accrued amount is the frozen hourly rate, not rate multiplied
		// by elapsed duration. See DESIGN.md.
		accrued := reservation.ParkingCostPerHour

		if err := tx.Model(&model.ParkingSpot{}).
			Where("id = ?", reservation.SpotID).
			Updates(map[string]any{
				"status":  model.SpotAvailable,
				"revenue": gorm.Expr("revenue + ?", accrued),
			}).Error; err != nil {
			return err
		}

		var spot model.ParkingSpot
		if err := tx.First(&spot, reservation.SpotID).Error; err != nil {
			return err
		}
		return tx.Model(&model.ParkingLot{}).
			Where("id = ?", spot.LotID).
			UpdateColumn("revenue", gorm.Expr("revenue + ?", accrued)).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// RecordPayment creates a payment for a reservation. Payments settle
// immediately; no amount validation against the expected cost is performed.
func (s *gormStore) RecordPayment(ctx context.Context, reservationID int64, amount float64, method string) (*model.Payment, error) {
	var reservationCount int64
	if err := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ?", reservationID).
		Count(&reservationCount).Error; err != nil {
		return nil, err
	}
	if reservationCount == 0 {
		return nil, fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
	}

	payment := &model.Payment{
		ReservationID:    reservationID,
		Amount:           amount,
		PaymentMethod:    method,
		PaymentStatus:    model.PaymentPaid,
		PaymentTimestamp: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return payment, nil
}

// ListUserReservations returns every reservation belonging to a user,
// newest first, with spot and payment preloaded.
func (s *gormStore) ListUserReservations(ctx context.Context, userID string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Spot").Preload("Payment").
		Where("user_id = ?", userID).
		Order("parking_timestamp DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ActiveReservationForSpot returns the single active reservation on a spot,
// if any. Used by the admin spot drill-down.
func (s *gormStore) ActiveReservationForSpot(ctx context.Context, spotID int64) (*model.Reservation, error) {
	var reservation model.Reservation
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Spot").
		Where("spot_id = ? AND status = ?", spotID, model.ReservationActive).
		First(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no active reservation for spot %d: %w", spotID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetVehicle fetches a vehicle by its registration number.
func (s *gormStore) GetVehicle(ctx context.Context, vehicleNumber string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := s.db.WithContext(ctx).
		Where("vehicle_number = ?", vehicleNumber).
		First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("vehicle %s: %w", vehicleNumber, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}
