package models

import "time"

// EmergencyItem is part of the shared disaster stockpile and has no owner.
type EmergencyItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	ExpirationDate *Date     `json:"expiration_date"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
