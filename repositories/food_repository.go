package repositories

import (
	"context"
	"errors"

	"gin-inventory/models"

	"gorm.io/gorm"
)

var ErrInsufficientQuantity = errors.New("insufficient quantity")

type IFoodRepository interface {
	FindAll(ctx context.Context, userID uint) ([]models.FoodItem, error)
	FindById(ctx context.Context, foodID uint, userID uint) (*models.FoodItem, error)
	FindByCategory(ctx context.Context, userID uint, category models.FoodCategory) ([]models.FoodItem, error)
	FindExpiringBetween(ctx context.Context, userID uint, from models.Date, to models.Date) ([]models.FoodItem, error)
	FindAllExpiringBetween(ctx context.Context, from models.Date, to models.Date) ([]models.FoodItem, error)
	FindCategories(ctx context.Context, userID uint) ([]models.FoodCategory, error)
	Create(ctx context.Context, newFood models.FoodItem) (*models.FoodItem, error)
	Update(ctx context.Context, food models.FoodItem) (*models.FoodItem, error)
	Consume(ctx context.Context, foodID uint, userID uint, amount int) (*models.FoodItem, bool, error)
	Delete(ctx context.Context, foodID uint, userID uint) error
}

type FoodRepository struct {
	db *gorm.DB
}

func NewFoodRepository(db *gorm.DB) IFoodRepository {
	return &FoodRepository{db: db}
}

func (r *FoodRepository) FindAll(ctx context.Context, userID uint) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("expiration_date ASC").
		Order("id ASC").
		Find(&foods)
	if result.Error != nil {
		return nil, result.Error
	}
	return foods, nil
}

func (r *FoodRepository) FindById(ctx context.Context, foodID uint, userID uint) (*models.FoodItem, error) {
	var food models.FoodItem
	result := r.db.WithContext(ctx).First(&food, "id = ? AND user_id = ?", foodID, userID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &food, nil
}

func (r *FoodRepository) FindByCategory(ctx context.Context, userID uint, category models.FoodCategory) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Order("expiration_date ASC").
		Find(&foods)
	if result.Error != nil {
		return nil, result.Error
	}
	return foods, nil
}

// FindExpiringBetween is inclusive on both ends.
func (r *FoodRepository) FindExpiringBetween(ctx context.Context, userID uint, from models.Date, to models.Date) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND expiration_date BETWEEN ? AND ?", userID, from, to).
		Order("expiration_date ASC").
		Order("id ASC").
		Find(&foods)
	if result.Error != nil {
		return nil, result.Error
	}
	return foods, nil
}

func (r *FoodRepository) FindAllExpiringBetween(ctx context.Context, from models.Date, to models.Date) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	result := r.db.WithContext(ctx).
		Where("expiration_date BETWEEN ? AND ?", from, to).
		Order("user_id ASC").
		Order("expiration_date ASC").
		Find(&foods)
	if result.Error != nil {
		return nil, result.Error
	}
	return foods, nil
}

func (r *FoodRepository) FindCategories(ctx context.Context, userID uint) ([]models.FoodCategory, error) {
	var categories []models.FoodCategory
	result := r.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("user_id = ?", userID).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

func (r *FoodRepository) Create(ctx context.Context, newFood models.FoodItem) (*models.FoodItem, error) {
	result := r.db.WithContext(ctx).Create(&newFood)
	if result.Error != nil {
		return nil, result.Error
	}
	return &newFood, nil
}

func (r *FoodRepository) Update(ctx context.Context, food models.FoodItem) (*models.FoodItem, error) {
	result := r.db.WithContext(ctx).Save(&food)
	if result.Error != nil {
		return nil, result.Error
	}
	return &food, nil
}

// Consume subtracts amount from the item and deletes it once nothing is left.
// The returned bool reports the deletion.
func (r *FoodRepository) Consume(ctx context.Context, foodID uint, userID uint, amount int) (*models.FoodItem, bool, error) {
	var food models.FoodItem
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&food, "id = ? AND user_id = ?", foodID, userID).Error; err != nil {
			return err
		}
		if amount > food.Quantity {
			return ErrInsufficientQuantity
		}

		food.Quantity -= amount
		if food.Quantity == 0 {
			deleted = true
			return tx.Delete(&food).Error
		}
		return tx.Model(&food).Update("quantity", food.Quantity).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &food, deleted, nil
}

func (r *FoodRepository) Delete(ctx context.Context, foodID uint, userID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.FoodItem{}, "id = ? AND user_id = ?", foodID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
