package store

import (
	"context"
	"time"

	"parking-reservation-backend/internal/model"
)

// RevokeToken records a credential's JTI on the denylist.
func (s *gormStore) RevokeToken(ctx context.Context, jti string) error {
	return s.db.WithContext(ctx).Create(&model.RevokedToken{JTI: jti}).Error
}

// IsTokenRevoked reports whether a JTI appears on the denylist.
func (s *gormStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.RevokedToken{}).
		Where("jti = ?", jti).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PruneRevokedTokens deletes denylist entries older than the cutoff and
// returns the number removed.
func (s *gormStore) PruneRevokedTokens(ctx context.Context, olderThan time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("created_at < ?", olderThan).
		Delete(&model.RevokedToken{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
