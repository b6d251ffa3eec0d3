package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"gin-inventory/clients"
	"gin-inventory/dto"
	"gin-inventory/models"
	"gin-inventory/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recipeFixture struct {
	service IRecipeService
	foods   repositories.IFoodRepository
	recipes *mockRecipes
	ai      *mockChat
	user    *models.User
}

func newRecipeFixture(t *testing.T) (*recipeFixture, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	f := &recipeFixture{
		foods:   repositories.NewFoodRepository(db),
		recipes: &mockRecipes{},
		ai:      &mockChat{},
		user:    createUser(t, db, "alice"),
	}
	f.service = NewRecipeService(f.foods, f.recipes, f.ai, fixedClock(testToday), zerolog.Nop())
	return f, db
}

func (f *recipeFixture) addFood(t *testing.T, name string, inDays int) {
	t.Helper()
	_, err := f.foods.Create(context.Background(), models.FoodItem{
		Name:           name,
		Category:       models.FoodCategoryOther,
		Quantity:       1,
		Unit:           models.FoodUnitPiece,
		ExpirationDate: testToday.AddDays(inDays),
		UserID:         f.user.ID,
	})
	require.NoError(t, err)
}

func TestSuggestWithoutExpiringFood(t *testing.T) {
	f, _ := newRecipeFixture(t)
	f.addFood(t, "米", 30)

	suggestion, err := f.service.Suggest(context.Background(), f.user.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, dto.RecipeSourceNone, suggestion.Source)
	assert.Empty(t, suggestion.Recipes)
	f.recipes.AssertNotCalled(t, "SearchByIngredients", mock.Anything)
}

func TestSuggestUsesRakutenWithFirstTwoIngredients(t *testing.T) {
	f, _ := newRecipeFixture(t)
	f.addFood(t, "キャベツ", 0)
	f.addFood(t, "豚肉", 1)
	f.addFood(t, "にんじん", 2)
	f.recipes.On("SearchByIngredients", []string{"キャベツ", "豚肉"}).Return([]clients.RakutenRecipe{
		{Title: "回鍋肉", URL: "https://recipe.rakuten.co.jp/recipe/1/"},
	}, nil)

	suggestion, err := f.service.Suggest(context.Background(), f.user.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, dto.RecipeSourceRakuten, suggestion.Source)
	assert.Equal(t, []string{"キャベツ", "豚肉", "にんじん"}, suggestion.Ingredients)
	require.Len(t, suggestion.Recipes, 1)
	assert.Equal(t, "回鍋肉", suggestion.Recipes[0].Title)
	f.ai.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSuggestFallsBackToAI(t *testing.T) {
	f, _ := newRecipeFixture(t)
	f.addFood(t, "キャベツ", 0)
	f.recipes.On("SearchByIngredients", mock.Anything).Return([]clients.RakutenRecipe{}, nil).Once()
	f.recipes.On("SearchByIngredients", mock.Anything).Return(nil, errors.New("rate limited")).Once()
	f.ai.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "キャベツ")
	})).Return("キャベツの浅漬け", nil)

	for i := 0; i < 2; i++ {
		suggestion, err := f.service.Suggest(context.Background(), f.user.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, dto.RecipeSourceChatGPT, suggestion.Source)
		require.Len(t, suggestion.Recipes, 1)
		assert.Equal(t, "キャベツの浅漬け", suggestion.Recipes[0].Text)
	}
}

func TestSuggestReportsNoneWhenEverythingFails(t *testing.T) {
	f, _ := newRecipeFixture(t)
	f.addFood(t, "キャベツ", 0)
	f.recipes.On("SearchByIngredients", mock.Anything).Return(nil, clients.ErrNotConfigured)
	f.ai.On("Complete", mock.Anything, mock.Anything).Return("", clients.ErrNotConfigured)

	suggestion, err := f.service.Suggest(context.Background(), f.user.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, dto.RecipeSourceNone, suggestion.Source)
	assert.Equal(t, []string{"キャベツ"}, suggestion.Ingredients)
}

func TestRecipeByMainFood(t *testing.T) {
	f, _ := newRecipeFixture(t)
	f.addFood(t, "鮭", 1)
	f.addFood(t, "米", 30)
	f.ai.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "「鮭」を主役")
	})).Return("鮭のムニエル", nil)

	_, err := f.service.ByMainFood(context.Background(), f.user.ID, "米")
	requireNotFound(t, err)

	suggestion, err := f.service.ByMainFood(context.Background(), f.user.ID, "鮭")
	require.NoError(t, err)
	assert.Equal(t, dto.RecipeSourceChatGPT, suggestion.Source)
	require.Len(t, suggestion.Recipes, 1)
	assert.Equal(t, "鮭のムニエル", suggestion.Recipes[0].Text)
}

func TestRecipeByMainFoodFailsWithoutAI(t *testing.T) {
	f, _ := newRecipeFixture(t)
	f.addFood(t, "鮭", 1)
	f.ai.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

	_, err := f.service.ByMainFood(context.Background(), f.user.ID, "鮭")
	requireHTTPError(t, err, http.StatusBadGateway)

	unconfigured := NewRecipeService(f.foods, f.recipes, nil, fixedClock(testToday), zerolog.Nop())
	_, err = unconfigured.ByMainFood(context.Background(), f.user.ID, "鮭")
	requireHTTPError(t, err, http.StatusBadGateway)
}
