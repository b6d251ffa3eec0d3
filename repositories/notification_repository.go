package repositories

import (
	"context"

	"gin-inventory/models"

	"gorm.io/gorm"
)

type INotificationRepository interface {
	Create(ctx context.Context, notification models.Notification) (*models.Notification, error)
	FindUnread(ctx context.Context, userID uint) ([]models.Notification, error)
	FindAll(ctx context.Context, userID uint) ([]models.Notification, error)
	FindByMessage(ctx context.Context, userID uint, message string) (*models.Notification, error)
	MarkRead(ctx context.Context, notificationID uint, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) INotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification models.Notification) (*models.Notification, error) {
	result := r.db.WithContext(ctx).Create(&notification)
	if result.Error != nil {
		return nil, result.Error
	}
	return &notification, nil
}

func (r *NotificationRepository) FindUnread(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}
	return notifications, nil
}

func (r *NotificationRepository) FindAll(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}
	return notifications, nil
}

func (r *NotificationRepository) FindByMessage(ctx context.Context, userID uint, message string) (*models.Notification, error) {
	var notification models.Notification
	result := r.db.WithContext(ctx).First(&notification, "user_id = ? AND message = ?", userID, message)
	if result.Error != nil {
		return nil, result.Error
	}
	return &notification, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID uint, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
