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
	"gin-inventory/repositories"

	"github.com/rs/zerolog"
)

const recipeSystemPrompt = "あなたは家庭料理に詳しい料理アシスタントです。"

type IRecipeService interface {
	Suggest(ctx context.Context, userID uint, days int) (*dto.RecipeSuggestion, error)
	ByMainFood(ctx context.Context, userID uint, foodName string) (*dto.RecipeSuggestion, error)
}

type RecipeService struct {
	foods   repositories.IFoodRepository
	recipes clients.IRecipeSearch
	ai      clients.IChatCompleter
	clock   Clock
	logger  zerolog.Logger
}

func NewRecipeService(
	foods repositories.IFoodRepository,
	recipes clients.IRecipeSearch,
	ai clients.IChatCompleter,
	clock Clock,
	logger zerolog.Logger,
) IRecipeService {
	return &RecipeService{foods: foods, recipes: recipes, ai: ai, clock: clock, logger: logger}
}

func (s *RecipeService) expiringNames(ctx context.Context, userID uint, days int) ([]string, error) {
	today := s.clock.Today()
	items, err := s.foods.FindExpiringBetween(ctx, userID, today, today.AddDays(days))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		names = append(names, item.Name)
	}
	return names, nil
}

// Suggest searches Rakuten with the first expiring ingredients and falls back to
// an AI generated recipe when nothing comes back.
func (s *RecipeService) Suggest(ctx context.Context, userID uint, days int) (*dto.RecipeSuggestion, error) {
	if days < 0 {
		return nil, errs.NewBadRequestError("days must not be negative")
	}
	names, err := s.expiringNames(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	suggestion := &dto.RecipeSuggestion{Source: dto.RecipeSourceNone, Ingredients: names, Recipes: []dto.Recipe{}}
	if len(names) == 0 {
		return suggestion, nil
	}

	keywords := names
	if len(keywords) > constants.RecipeSearchIngredients {
		keywords = keywords[:constants.RecipeSearchIngredients]
	}
	if s.recipes != nil {
		found, err := s.recipes.SearchByIngredients(ctx, keywords)
		switch {
		case err != nil && !errors.Is(err, clients.ErrNotConfigured):
			s.logger.Warn().Err(err).Strs("ingredients", keywords).Msg("recipe search failed")
		case len(found) > 0:
			for _, r := range found {
				suggestion.Recipes = append(suggestion.Recipes, dto.Recipe{
					Title:       r.Title,
					URL:         r.URL,
					ImageURL:    r.ImageURL,
					Ingredients: r.Ingredients,
				})
			}
			suggestion.Source = dto.RecipeSourceRakuten
			return suggestion, nil
		}
	}

	prompt := fmt.Sprintf(
		"以下の食材を使った家庭向けの簡単なレシピを1つ提案してください。\n"+
			"食材：%s\n"+
			"料理名、材料、手順を日本語で簡潔に書いてください。",
		strings.Join(names, "、"),
	)
	if text, ok := s.generate(ctx, prompt); ok {
		suggestion.Source = dto.RecipeSourceChatGPT
		suggestion.Recipes = append(suggestion.Recipes, dto.Recipe{Text: text})
	}
	return suggestion, nil
}

func (s *RecipeService) ByMainFood(ctx context.Context, userID uint, foodName string) (*dto.RecipeSuggestion, error) {
	foodName = strings.TrimSpace(foodName)
	if foodName == "" {
		return nil, errs.NewBadRequestError(constants.ErrInvalidInput)
	}
	names, err := s.expiringNames(ctx, userID, constants.DefaultExpiringDays)
	if err != nil {
		return nil, err
	}
	found := false
	for _, name := range names {
		if name == foodName {
			found = true
			break
		}
	}
	if !found {
		return nil, errs.NewNotFoundError(constants.ErrNotExpiringFood)
	}

	prompt := fmt.Sprintf(
		"「%s」を主役にした家庭向けのレシピを1つ提案してください。\n"+
			"他に使える食材：%s\n"+
			"料理名、材料、手順を日本語で簡潔に書いてください。",
		foodName, strings.Join(names, "、"),
	)
	text, ok := s.generate(ctx, prompt)
	if !ok {
		return nil, errs.NewBadGatewayError(constants.ErrAIUnavailable)
	}
	return &dto.RecipeSuggestion{
		Source:      dto.RecipeSourceChatGPT,
		Ingredients: []string{foodName},
		Recipes:     []dto.Recipe{{Title: foodName, Text: text}},
	}, nil
}

func (s *RecipeService) generate(ctx context.Context, prompt string) (string, bool) {
	if s.ai == nil {
		return "", false
	}
	text, err := s.ai.Complete(ctx, recipeSystemPrompt, prompt)
	if err != nil {
		if !errors.Is(err, clients.ErrNotConfigured) {
			s.logger.Warn().Err(err).Msg("recipe generation failed")
		}
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}
