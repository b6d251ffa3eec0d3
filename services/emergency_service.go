package services

import (
	"context"
	"strings"

	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/errs"
	"gin-inventory/models"
	"gin-inventory/repositories"
)

type IEmergencyService interface {
	FindAll(ctx context.Context) ([]models.EmergencyItem, error)
	FindById(ctx context.Context, itemID uint) (*models.EmergencyItem, error)
	FindExpiring(ctx context.Context, days int) ([]models.EmergencyItem, error)
	Create(ctx context.Context, input dto.CreateEmergencyInput) (*models.EmergencyItem, error)
	Update(ctx context.Context, itemID uint, input dto.UpdateEmergencyInput) (*models.EmergencyItem, error)
	Delete(ctx context.Context, itemID uint) error
}

type EmergencyService struct {
	repository repositories.IEmergencyRepository
	clock      Clock
}

func NewEmergencyService(repository repositories.IEmergencyRepository, clock Clock) IEmergencyService {
	return &EmergencyService{repository: repository, clock: clock}
}

func (s *EmergencyService) FindAll(ctx context.Context) ([]models.EmergencyItem, error) {
	return s.repository.FindAll(ctx)
}

func (s *EmergencyService) FindById(ctx context.Context, itemID uint) (*models.EmergencyItem, error) {
	item, err := s.repository.FindById(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err, constants.ErrEmergencyNotFound)
	}
	return item, nil
}

// FindExpiring returns dated items expiring on or before today+days,
// already expired ones included.
func (s *EmergencyService) FindExpiring(ctx context.Context, days int) ([]models.EmergencyItem, error) {
	if days < 0 {
		return nil, errs.NewBadRequestError("days must not be negative")
	}
	return s.repository.FindExpiringBefore(ctx, s.clock.Today().AddDays(days))
}

func (s *EmergencyService) Create(ctx context.Context, input dto.CreateEmergencyInput) (*models.EmergencyItem, error) {
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity <= 0 {
		return nil, errs.NewBadRequestError(constants.ErrInvalidQuantity)
	}
	newItem := models.EmergencyItem{
		Name:           strings.TrimSpace(input.Name),
		Quantity:       quantity,
		ExpirationDate: input.ExpirationDate,
		Category:       input.Category,
		Location:       input.Location,
	}
	if newItem.Name == "" {
		return nil, errs.NewBadRequestError(constants.ErrInvalidInput)
	}
	return s.repository.Create(ctx, newItem)
}

func (s *EmergencyService) Update(ctx context.Context, itemID uint, input dto.UpdateEmergencyInput) (*models.EmergencyItem, error) {
	targetItem, err := s.FindById(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		targetItem.Name = strings.TrimSpace(*input.Name)
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, errs.NewBadRequestError(constants.ErrInvalidQuantity)
		}
		targetItem.Quantity = *input.Quantity
	}
	if input.ExpirationDate != nil {
		targetItem.ExpirationDate = input.ExpirationDate
	}
	if input.Category != nil {
		targetItem.Category = *input.Category
	}
	if input.Location != nil {
		targetItem.Location = *input.Location
	}
	if targetItem.Name == "" {
		return nil, errs.NewBadRequestError(constants.ErrInvalidInput)
	}
	return s.repository.Update(ctx, *targetItem)
}

func (s *EmergencyService) Delete(ctx context.Context, itemID uint) error {
	return notFoundOr(s.repository.Delete(ctx, itemID), constants.ErrEmergencyNotFound)
}
