package dto

import "gin-inventory/models"

type CreateEmergencyInput struct {
	Name           string       `json:"name" binding:"required"`
	Quantity       *int         `json:"quantity"`
	ExpirationDate *models.Date `json:"expiration_date"`
	Category       string       `json:"category"`
	Location       string       `json:"location"`
}

type UpdateEmergencyInput struct {
	Name           *string      `json:"name" binding:"omitempty,min=1"`
	Quantity       *int         `json:"quantity"`
	ExpirationDate *models.Date `json:"expiration_date"`
	Category       *string      `json:"category"`
	Location       *string      `json:"location"`
}
