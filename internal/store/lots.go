package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"parking-reservation-backend/internal/model"
)

// lotAddress derives the stored address string from the location fields.
func lotAddress(spec LotSpec) string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		spec.PrimeLocationName, spec.City, spec.District, spec.PinCode, spec.State)
}

// spotOrdinal extracts the numeric suffix from a "{lotID}-{n}" spot number.
func spotOrdinal(spotNumber string) int {
	idx := strings.LastIndex(spotNumber, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(spotNumber[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// CreateLot creates a lot and its full spot pool in one transaction. Spots
// are numbered "{lotID}-1" through "{lotID}-N".
func (s *gormStore) CreateLot(ctx context.Context, spec LotSpec) (*model.ParkingLot, error) {
	if spec.MaximumNumberOfSpots <= 0 {
		return nil, fmt.Errorf("maximum_number_of_spots must be positive: %w", ErrValidation)
	}

	floor := spec.FloorLevel
	if floor == "" {
		floor = "Ground"
	}

	lot := &model.ParkingLot{
		PrimeLocationName:    spec.PrimeLocationName,
		City:                 spec.City,
		State:                spec.State,
		District:             spec.District,
		PinCode:              spec.PinCode,
		Address:              lotAddress(spec),
		PricePerHour:         spec.PricePerHour,
		FloorLevel:           floor,
		MaximumNumberOfSpots: spec.MaximumNumberOfSpots,
		IsActive:             true,
		OpenTime:             spec.OpenTime,
		CloseTime:            spec.CloseTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lot).Error; err != nil {
			return fmt.Errorf("failed to create lot: %w", err)
		}
		for i := 1; i <= spec.MaximumNumberOfSpots; i++ {
			spot := model.ParkingSpot{
				SpotNumber: fmt.Sprintf("%d-%d", lot.ID, i),
				LotID:      lot.ID,
				Status:     model.SpotAvailable,
			}
			if err := tx.Create(&spot).Error; err != nil {
				return fmt.Errorf("failed to create spot %d for lot %d: %w", i, lot.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// UpdateLot resizes a lot's spot pool and updates its editable fields.
// Shrinking never removes occupied spots; growing fills numbering gaps
// before appending new numbers.
func (s *gormStore) UpdateLot(ctx context.Context, lotID int64, spec LotUpdate) (*model.ParkingLot, error) {
	var lot model.ParkingLot

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lot, lotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
			}
			return err
		}

		var occupied int64
		if err := tx.Model(&model.ParkingSpot{}).
			Where("lot_id = ? AND status = ?", lotID, model.SpotOccupied).
			Count(&occupied).Error; err != nil {
			return err
		}

		newSpots := spec.MaximumNumberOfSpots
		if int64(newSpots) < occupied {
			return fmt.Errorf("cannot reduce spots to %d, %d are occupied: %w",
				newSpots, occupied, ErrValidation)
		}

		currentSpots := lot.MaximumNumberOfSpots
		switch {
		case newSpots < currentSpots:
			if err := shrinkLot(tx, &lot, currentSpots-newSpots); err != nil {
				return err
			}
		case newSpots > currentSpots:
			if err := growLot(tx, &lot, newSpots); err != nil {
				return err
			}
		}

		lot.PricePerHour = spec.PricePerHour
		lot.MaximumNumberOfSpots = newSpots
		lot.OpenTime = spec.OpenTime
		lot.CloseTime = spec.CloseTime
		return tx.Save(&lot).Error
	})
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// shrinkLot deletes up to n available spots, highest spot number first.
func shrinkLot(tx *gorm.DB, lot *model.ParkingLot, n int) error {
	var available []model.ParkingSpot
	if err := tx.Where("lot_id = ? AND status = ?", lot.ID, model.SpotAvailable).
		Find(&available).Error; err != nil {
		return err
	}

	sort.Slice(available, func(i, j int) bool {
		return spotOrdinal(available[i].SpotNumber) > spotOrdinal(available[j].SpotNumber)
	})

	if n > len(available) {
		n = len(available)
	}
	for _, spot := range available[:n] {
		if err := tx.Delete(&model.ParkingSpot{}, spot.ID).Error; err != nil {
			return fmt.Errorf("failed to delete spot %s: %w", spot.SpotNumber, err)
		}
	}
	return nil
}

// growLot creates spots so that every number in 1..target exists, reusing
// any gaps left by earlier deletions.
func growLot(tx *gorm.DB, lot *model.ParkingLot, target int) error {
	var existing []model.ParkingSpot
	if err := tx.Where("lot_id = ?", lot.ID).Find(&existing).Error; err != nil {
		return err
	}

	taken := make(map[int]bool, len(existing))
	for _, spot := range existing {
		taken[spotOrdinal(spot.SpotNumber)] = true
	}

	for i := 1; i <= target; i++ {
		if taken[i] {
			continue
		}
		spot := model.ParkingSpot{
			SpotNumber: fmt.Sprintf("%d-%d", lot.ID, i),
			LotID:      lot.ID,
			Status:     model.SpotAvailable,
		}
		if err := tx.Create(&spot).Error; err != nil {
			return fmt.Errorf("failed to create spot %d-%d: %w", lot.ID, i, err)
		}
	}
	return nil
}

// DeleteLot removes a lot and all of its spots. It refuses if any spot is
// occupied.
func (s *gormStore) DeleteLot(ctx context.Context, lotID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot model.ParkingLot
		if err := tx.First(&lot, lotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
			}
			return err
		}

		var occupied int64
		if err := tx.Model(&model.ParkingSpot{}).
			Where("lot_id = ? AND status = ?", lotID, model.SpotOccupied).
			Count(&occupied).Error; err != nil {
			return err
		}
		if occupied > 0 {
			return fmt.Errorf("cannot delete lot %d, it has %d occupied spot(s): %w",
				lotID, occupied, ErrValidation)
		}

		if err := tx.Where("lot_id = ?", lotID).Delete(&model.ParkingSpot{}).Error; err != nil {
			return fmt.Errorf("failed to delete spots for lot %d: %w", lotID, err)
		}
		if err := tx.Delete(&model.ParkingLot{}, lotID).Error; err != nil {
			return fmt.Errorf("failed to delete lot %d: %w", lotID, err)
		}
		return nil
	})
}

// DeleteSpot removes a single spot and decrements its lot's capacity.
// Occupied spots cannot be deleted.
func (s *gormStore) DeleteSpot(ctx context.Context, spotID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot model.ParkingSpot
		if err := tx.First(&spot, spotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parking spot %d: %w", spotID, ErrNotFound)
			}
			return err
		}
		if spot.Status == model.SpotOccupied {
			return fmt.Errorf("cannot delete occupied spot %s: %w", spot.SpotNumber, ErrValidation)
		}

		if err := tx.Model(&model.ParkingLot{}).
			Where("id = ?", spot.LotID).
			UpdateColumn("maximum_number_of_spots", gorm.Expr("maximum_number_of_spots - 1")).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ParkingSpot{}, spotID).Error
	})
}

// GetLot fetches a lot with its spots preloaded.
func (s *gormStore) GetLot(ctx context.Context, lotID int64) (*model.ParkingLot, error) {
	var lot model.ParkingLot
	err := s.db.WithContext(ctx).Preload("ParkingSpots").First(&lot, lotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// ListLots returns all lots ordered by location name, spots preloaded.
func (s *gormStore) ListLots(ctx context.Context) ([]model.ParkingLot, error) {
	var lots []model.ParkingLot
	err := s.db.WithContext(ctx).Preload("ParkingSpots").
		Order("prime_location_name").Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// SearchLots finds active lots whose pincode or address matches the query.
func (s *gormStore) SearchLots(ctx context.Context, query string) ([]model.ParkingLot, error) {
	var lots []model.ParkingLot
	pattern := "%" + query + "%"
	err := s.db.WithContext(ctx).Preload("ParkingSpots").
		Where("is_active = ?", true).
		Where("pin_code LIKE ? OR address LIKE ?", pattern, pattern).
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// AdminSearch performs a typed admin lookup over lots, users or vehicles.
func (s *gormStore) AdminSearch(ctx context.Context, searchType, key, value string) (any, error) {
	if value == "" {
		return nil, fmt.Errorf("search parameters are required: %w", ErrValidation)
	}
	db := s.db.WithContext(ctx)
	pattern := "%" + value + "%"

	switch searchType {
	case "lot":
		var lots []model.ParkingLot
		switch key {
		case "location":
			err := db.Where("prime_location_name LIKE ?", pattern).Find(&lots).Error
			return lots, err
		case "pincode":
			err := db.Where("pin_code = ?", value).Find(&lots).Error
			return lots, err
		}
	case "user":
		var users []model.User
		switch key {
		case "user_id", "username":
			err := db.Where("username LIKE ?", pattern).Find(&users).Error
			return users, err
		case "phone":
			err := db.Where("phone_number = ?", value).Find(&users).Error
			return users, err
		case "pincode":
			err := db.Where("pincode = ?", value).Find(&users).Error
			return users, err
		}
	case "vehicle":
		if key == "vehicle_number" {
			var vehicles []model.Vehicle
			err := db.Where("vehicle_number LIKE ?", pattern).Find(&vehicles).Error
			return vehicles, err
		}
	}
	return nil, fmt.Errorf("invalid search parameter %q for type %q: %w", key, searchType, ErrValidation)
}
