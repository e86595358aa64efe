package models

import "time"

// Blacklist holds access tokens invalidated by logout.
type Blacklist struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}
