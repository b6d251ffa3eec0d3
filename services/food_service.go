package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gin-inventory/clients"
	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/errs"
	"gin-inventory/models"
	"gin-inventory/repositories"
	"gin-inventory/utils"

	"github.com/rs/zerolog"
)

type IFoodService interface {
	FindAll(ctx context.Context, userID uint) ([]models.FoodItem, error)
	FindById(ctx context.Context, foodID uint, userID uint) (*models.FoodItem, error)
	Create(ctx context.Context, input dto.CreateFoodInput, userID uint) (*models.FoodItem, error)
	Update(ctx context.Context, foodID uint, userID uint, input dto.UpdateFoodInput) (*models.FoodItem, error)
	Delete(ctx context.Context, foodID uint, userID uint) error
	FindByCategory(ctx context.Context, userID uint, category models.FoodCategory) ([]models.FoodItem, error)
	FindExpiringSoon(ctx context.Context, userID uint, days int) ([]models.FoodItem, error)
	FindCategories(ctx context.Context, userID uint) ([]models.FoodCategory, error)
	Options() dto.FoodOptions
	Use(ctx context.Context, foodID uint, userID uint, amount int) (*dto.UseFoodResponse, error)
	LookupBarcode(ctx context.Context, code string) (*dto.BarcodeProduct, error)
	RegisterByBarcode(ctx context.Context, input dto.RegisterByBarcodeInput, userID uint) (*models.FoodItem, error)
}

type FoodService struct {
	repository repositories.IFoodRepository
	barcodes   clients.IBarcodeLookup
	ai         clients.IChatCompleter
	clock      Clock
	logger     zerolog.Logger
}

func NewFoodService(
	repository repositories.IFoodRepository,
	barcodes clients.IBarcodeLookup,
	ai clients.IChatCompleter,
	clock Clock,
	logger zerolog.Logger,
) IFoodService {
	return &FoodService{
		repository: repository,
		barcodes:   barcodes,
		ai:         ai,
		clock:      clock,
		logger:     logger,
	}
}

func (s *FoodService) FindAll(ctx context.Context, userID uint) ([]models.FoodItem, error) {
	return s.repository.FindAll(ctx, userID)
}

func (s *FoodService) FindById(ctx context.Context, foodID uint, userID uint) (*models.FoodItem, error) {
	food, err := s.repository.FindById(ctx, foodID, userID)
	if err != nil {
		return nil, notFoundOr(err, constants.ErrFoodNotFound)
	}
	return food, nil
}

func (s *FoodService) Create(ctx context.Context, input dto.CreateFoodInput, userID uint) (*models.FoodItem, error) {
	newFood := models.FoodItem{
		Name:     strings.TrimSpace(input.Name),
		Category: input.Category,
		Quantity: input.Quantity,
		Unit:     input.Unit,
		Barcode:  input.Barcode,
		UserID:   userID,
	}
	if input.ExpirationDate != nil {
		newFood.ExpirationDate = *input.ExpirationDate
	}
	return s.create(ctx, newFood, true)
}

func (s *FoodService) create(ctx context.Context, food models.FoodItem, checkCategory bool) (*models.FoodItem, error) {
	if food.Unit == "" {
		food.Unit = models.FoodUnitPiece
	}
	if err := validateFood(food); err != nil {
		return nil, err
	}
	if checkCategory && !s.categoryFits(ctx, food.Name, food.Category) {
		return nil, errs.NewBadRequestError(constants.ErrCategoryMismatch)
	}
	return s.repository.Create(ctx, food)
}

func validateFood(food models.FoodItem) error {
	switch {
	case food.Name == "":
		return errs.NewBadRequestError(constants.ErrInvalidInput)
	case food.Quantity <= 0:
		return errs.NewBadRequestError(constants.ErrInvalidQuantity)
	case !food.Category.Valid():
		return errs.NewBadRequestError(constants.ErrInvalidCategory)
	case !food.Unit.Valid():
		return errs.NewBadRequestError(constants.ErrInvalidUnit)
	case food.ExpirationDate.IsZero():
		return errs.NewBadRequestError(constants.ErrInvalidInput)
	}
	return nil
}

// categoryFits asks the AI whether name belongs to category. Only a definite
// "no" rejects; errors and unclear answers accept.
func (s *FoodService) categoryFits(ctx context.Context, name string, category models.FoodCategory) bool {
	if s.ai == nil {
		return true
	}
	prompt := fmt.Sprintf(
		"食材「%s」が「%s」カテゴリに分類されるのは妥当かを判断してください。\n"+
			"カテゴリ一覧：%s\n"+
			"「はい」または「いいえ」のみで答えてください。",
		name, category, joinCategories(),
	)
	answer, err := s.ai.Complete(ctx, "あなたは食品のカテゴリ判定を行うアシスタントです。", prompt)
	if err != nil {
		if !errors.Is(err, clients.ErrNotConfigured) {
			s.logger.Warn().Err(err).Str("food", name).Msg("category validation skipped")
		}
		return true
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if strings.HasPrefix(answer, "いいえ") || strings.HasPrefix(answer, "no") {
		return false
	}
	return true
}

func joinCategories() string {
	names := make([]string, len(models.FoodCategories))
	for i, c := range models.FoodCategories {
		names[i] = string(c)
	}
	return strings.Join(names, "、")
}

func (s *FoodService) Update(ctx context.Context, foodID uint, userID uint, input dto.UpdateFoodInput) (*models.FoodItem, error) {
	targetFood, err := s.FindById(ctx, foodID, userID)
	if err != nil {
		return nil, err
	}
	before := *targetFood

	if input.Name != nil {
		targetFood.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		targetFood.Category = *input.Category
	}
	if input.Quantity != nil {
		targetFood.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		targetFood.Unit = *input.Unit
	}
	if input.ExpirationDate != nil {
		targetFood.ExpirationDate = *input.ExpirationDate
	}
	if input.Barcode != nil {
		targetFood.Barcode = input.Barcode
	}

	if err := validateFood(*targetFood); err != nil {
		return nil, err
	}
	changed := targetFood.Name != before.Name || targetFood.Category != before.Category
	if changed && !s.categoryFits(ctx, targetFood.Name, targetFood.Category) {
		return nil, errs.NewBadRequestError(constants.ErrCategoryMismatch)
	}
	return s.repository.Update(ctx, *targetFood)
}

func (s *FoodService) Delete(ctx context.Context, foodID uint, userID uint) error {
	return notFoundOr(s.repository.Delete(ctx, foodID, userID), constants.ErrFoodNotFound)
}

func (s *FoodService) FindByCategory(ctx context.Context, userID uint, category models.FoodCategory) ([]models.FoodItem, error) {
	if !category.Valid() {
		return nil, errs.NewBadRequestError(constants.ErrInvalidCategory)
	}
	return s.repository.FindByCategory(ctx, userID, category)
}

// FindExpiringSoon covers today through today+days.
func (s *FoodService) FindExpiringSoon(ctx context.Context, userID uint, days int) ([]models.FoodItem, error) {
	if days < 0 {
		return nil, errs.NewBadRequestError("days must not be negative")
	}
	today := s.clock.Today()
	return s.repository.FindExpiringBetween(ctx, userID, today, today.AddDays(days))
}

func (s *FoodService) FindCategories(ctx context.Context, userID uint) ([]models.FoodCategory, error) {
	return s.repository.FindCategories(ctx, userID)
}

func (s *FoodService) Options() dto.FoodOptions {
	return dto.FoodOptions{Categories: models.FoodCategories, Units: models.FoodUnits}
}

func (s *FoodService) Use(ctx context.Context, foodID uint, userID uint, amount int) (*dto.UseFoodResponse, error) {
	if amount <= 0 {
		return nil, errs.NewBadRequestError(constants.ErrInvalidQuantity)
	}
	food, deleted, err := s.repository.Consume(ctx, foodID, userID, amount)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientQuantity) {
			return nil, errs.NewBadRequestError(constants.ErrOverUse)
		}
		return nil, notFoundOr(err, constants.ErrFoodNotFound)
	}
	if deleted {
		return &dto.UseFoodResponse{Deleted: true}, nil
	}
	return &dto.UseFoodResponse{Deleted: false, Item: food}, nil
}

func (s *FoodService) LookupBarcode(ctx context.Context, code string) (*dto.BarcodeProduct, error) {
	code = strings.TrimSpace(code)
	if !utils.IsValidJAN(code) {
		return nil, errs.NewBadRequestError(constants.ErrInvalidBarcode)
	}

	product, err := s.barcodes.LookupJAN(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrNotFound):
			return nil, errs.NewNotFoundError(constants.ErrBarcodeNotFound)
		case errors.Is(err, clients.ErrNotConfigured):
			return nil, errs.NewServiceUnavailableError("Barcode lookup is not configured")
		}
		s.logger.Error().Err(err).Str("barcode", code).Msg("barcode lookup failed")
		return nil, errs.NewBadGatewayError("Barcode lookup failed")
	}

	quantity, unit := utils.ExtractQuantityAndUnit(product.Details)
	return &dto.BarcodeProduct{
		Barcode:  code,
		Name:     product.Name,
		Brand:    product.Brand,
		Maker:    product.Maker,
		ImageURL: product.ImageURL,
		Category: utils.GuessFoodCategory(product.Name),
		Quantity: quantity,
		Unit:     unit,
	}, nil
}

// RegisterByBarcode applies the caller's overrides on top of the looked-up
// product. The AI category check runs only for an explicit category.
func (s *FoodService) RegisterByBarcode(ctx context.Context, input dto.RegisterByBarcodeInput, userID uint) (*models.FoodItem, error) {
	product, err := s.LookupBarcode(ctx, input.Barcode)
	if err != nil {
		return nil, err
	}

	barcode := product.Barcode
	newFood := models.FoodItem{
		Name:           product.Name,
		Category:       product.Category,
		Quantity:       product.Quantity,
		Unit:           product.Unit,
		ExpirationDate: *input.ExpirationDate,
		Barcode:        &barcode,
		UserID:         userID,
	}
	if input.Name != nil {
		newFood.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		newFood.Category = *input.Category
	}
	if input.Unit != nil {
		newFood.Unit = *input.Unit
	}
	if input.Quantity != nil {
		newFood.Quantity = *input.Quantity
	}
	return s.create(ctx, newFood, input.Category != nil)
}
