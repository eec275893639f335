package model

import "time"

// RevokedToken is a denylist entry for an invalidated session credential,
// identified by its JTI claim. Entries are pruned by age by a weekly job.
type RevokedToken struct {
	ID        int64     `gorm:"primaryKey"`
	JTI       string    `gorm:"column:jti;size:36;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
