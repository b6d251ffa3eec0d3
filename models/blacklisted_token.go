package models

import "time"

type BlacklistedToken struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"not null;uniqueIndex;size:512"`
	ExpiresAt int64  `gorm:"not null;index"`
	CreatedAt time.Time
}
