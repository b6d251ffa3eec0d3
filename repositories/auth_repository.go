package repositories

import (
	"context"
	"errors"

	"gin-inventory/models"

	"gorm.io/gorm"
)

type IAuthRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	FindUser(ctx context.Context, login string) (*models.User, error)
	FindUserByID(ctx context.Context, userID uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsUsername(ctx context.Context, username string, exceptID uint) (bool, error)
	ExistsEmail(ctx context.Context, email string, exceptID uint) (bool, error)
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
}

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) IAuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	result := r.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// FindUser looks the user up by username first, then by email.
func (r *AuthRepository) FindUser(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "username = ?", login)
	if result.Error == nil {
		return &user, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	return r.FindUserByEmail(ctx, login)
}

func (r *AuthRepository) FindUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", userID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *AuthRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *AuthRepository) ExistsUsername(ctx context.Context, username string, exceptID uint) (bool, error) {
	return r.exists(ctx, "username = ?", username, exceptID)
}

func (r *AuthRepository) ExistsEmail(ctx context.Context, email string, exceptID uint) (bool, error) {
	return r.exists(ctx, "email = ?", email, exceptID)
}

func (r *AuthRepository) exists(ctx context.Context, cond string, value string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.User{}).Where(cond, value)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AuthRepository) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	result := r.db.WithContext(ctx).Save(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}
