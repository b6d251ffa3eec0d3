package dto

import "gin-inventory/models"

// Quantity is checked by the service so zero and negatives get the same message.
type CreateFoodInput struct {
	Name           string              `json:"name" binding:"required"`
	Category       models.FoodCategory `json:"category" binding:"required,food_category"`
	Quantity       int                 `json:"quantity"`
	Unit           models.FoodUnit     `json:"unit" binding:"omitempty,food_unit"`
	ExpirationDate *models.Date        `json:"expiration_date" binding:"required"`
	Barcode        *string             `json:"barcode" binding:"omitempty,jan"`
}

type UpdateFoodInput struct {
	Name           *string              `json:"name" binding:"omitempty,min=1"`
	Category       *models.FoodCategory `json:"category" binding:"omitempty,food_category"`
	Quantity       *int                 `json:"quantity"`
	Unit           *models.FoodUnit     `json:"unit" binding:"omitempty,food_unit"`
	ExpirationDate *models.Date         `json:"expiration_date"`
	Barcode        *string              `json:"barcode" binding:"omitempty,jan"`
}

type UseFoodInput struct {
	UsedQuantity int `json:"used_quantity" binding:"required,gt=0"`
}

type UseFoodResponse struct {
	Deleted bool             `json:"deleted"`
	Item    *models.FoodItem `json:"item,omitempty"`
}

type RegisterByBarcodeInput struct {
	Barcode        string               `json:"barcode" binding:"required"`
	ExpirationDate *models.Date         `json:"expiration_date" binding:"required"`
	Name           *string              `json:"name" binding:"omitempty,min=1"`
	Category       *models.FoodCategory `json:"category" binding:"omitempty,food_category"`
	Unit           *models.FoodUnit     `json:"unit" binding:"omitempty,food_unit"`
	Quantity       *int                 `json:"quantity"`
}

type BarcodeProduct struct {
	Barcode  string              `json:"barcode"`
	Name     string              `json:"name"`
	Brand    string              `json:"brand"`
	Maker    string              `json:"maker"`
	ImageURL string              `json:"image_url"`
	Category models.FoodCategory `json:"category"`
	Quantity int                 `json:"quantity"`
	Unit     models.FoodUnit     `json:"unit"`
}

type FoodOptions struct {
	Categories []models.FoodCategory `json:"categories"`
	Units      []models.FoodUnit     `json:"units"`
}

const (
	RecipeSourceRakuten = "rakuten"
	RecipeSourceChatGPT = "chatgpt"
	RecipeSourceNone    = "none"
)

type Recipe struct {
	Title       string   `json:"title,omitempty"`
	URL         string   `json:"url,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Text        string   `json:"text,omitempty"`
}

type RecipeSuggestion struct {
	Source      string   `json:"source"`
	Ingredients []string `json:"ingredients"`
	Recipes     []Recipe `json:"recipes"`
}
