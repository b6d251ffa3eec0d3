package repositories

import (
	"context"

	"gin-inventory/models"

	"gorm.io/gorm"
)

type IEmergencyRepository interface {
	FindAll(ctx context.Context) ([]models.EmergencyItem, error)
	FindById(ctx context.Context, itemID uint) (*models.EmergencyItem, error)
	FindExpiringBefore(ctx context.Context, deadline models.Date) ([]models.EmergencyItem, error)
	FindExpiringOn(ctx context.Context, day models.Date) ([]models.EmergencyItem, error)
	Create(ctx context.Context, newItem models.EmergencyItem) (*models.EmergencyItem, error)
	Update(ctx context.Context, item models.EmergencyItem) (*models.EmergencyItem, error)
	Delete(ctx context.Context, itemID uint) error
}

type EmergencyRepository struct {
	db *gorm.DB
}

func NewEmergencyRepository(db *gorm.DB) IEmergencyRepository {
	return &EmergencyRepository{db: db}
}

func (r *EmergencyRepository) FindAll(ctx context.Context) ([]models.EmergencyItem, error) {
	var items []models.EmergencyItem
	result := r.db.WithContext(ctx).Order("id ASC").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *EmergencyRepository) FindById(ctx context.Context, itemID uint) (*models.EmergencyItem, error) {
	var item models.EmergencyItem
	result := r.db.WithContext(ctx).First(&item, "id = ?", itemID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &item, nil
}

// FindExpiringBefore skips items without an expiration date.
func (r *EmergencyRepository) FindExpiringBefore(ctx context.Context, deadline models.Date) ([]models.EmergencyItem, error) {
	var items []models.EmergencyItem
	result := r.db.WithContext(ctx).
		Where("expiration_date IS NOT NULL AND expiration_date <= ?", deadline).
		Order("expiration_date ASC").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *EmergencyRepository) FindExpiringOn(ctx context.Context, day models.Date) ([]models.EmergencyItem, error) {
	var items []models.EmergencyItem
	result := r.db.WithContext(ctx).Where("expiration_date = ?", day).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *EmergencyRepository) Create(ctx context.Context, newItem models.EmergencyItem) (*models.EmergencyItem, error) {
	result := r.db.WithContext(ctx).Create(&newItem)
	if result.Error != nil {
		return nil, result.Error
	}
	return &newItem, nil
}

func (r *EmergencyRepository) Update(ctx context.Context, item models.EmergencyItem) (*models.EmergencyItem, error) {
	result := r.db.WithContext(ctx).Save(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	return &item, nil
}

func (r *EmergencyRepository) Delete(ctx context.Context, itemID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.EmergencyItem{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
