package dto

import (
	"gin-inventory/models"
	"gin-inventory/utils"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain tags used in binding struct tags.
func RegisterValidators(v *validator.Validate) error {
	validations := map[string]validator.Func{
		"isbn13": func(fl validator.FieldLevel) bool {
			return utils.IsValidISBN13(fl.Field().String())
		},
		"jan": func(fl validator.FieldLevel) bool {
			return utils.IsValidJAN(fl.Field().String())
		},
		"food_category": func(fl validator.FieldLevel) bool {
			return models.FoodCategory(fl.Field().String()).Valid()
		},
		"food_unit": func(fl validator.FieldLevel) bool {
			return models.FoodUnit(fl.Field().String()).Valid()
		},
		"book_status": func(fl validator.FieldLevel) bool {
			return models.BookStatus(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
