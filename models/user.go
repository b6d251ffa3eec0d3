package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"not null;uniqueIndex;size:100" json:"username"`
	Email     string         `gorm:"not null;uniqueIndex;size:255" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"not null;default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Books     []Book     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	FoodItems []FoodItem `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
