package clients

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type RakutenRecipe struct {
	Title       string
	URL         string
	ImageURL    string
	Ingredients []string
}

type IRecipeSearch interface {
	SearchByIngredients(ctx context.Context, ingredients []string) ([]RakutenRecipe, error)
}

type rakutenRecipeResponse struct {
	Recipes []struct {
		RecipeTitle    string   `json:"recipeTitle"`
		RecipeURL      string   `json:"recipeUrl"`
		FoodImageURL   string   `json:"foodImageUrl"`
		RecipeMaterial []string `json:"recipeMaterial"`
	} `json:"recipes"`
}

type RakutenRecipeClient struct {
	baseURL string
	appID   string
	http    *http.Client
}

func NewRakutenRecipeClient(baseURL string, appID string, timeout time.Duration) *RakutenRecipeClient {
	return &RakutenRecipeClient{baseURL: baseURL, appID: appID, http: newHTTPClient(timeout)}
}

// SearchByIngredients sends the ingredients as one keyword query. The API
// rejects long keyword lists, so callers pass at most two names.
func (c *RakutenRecipeClient) SearchByIngredients(ctx context.Context, ingredients []string) ([]RakutenRecipe, error) {
	if len(ingredients) == 0 {
		return []RakutenRecipe{}, nil
	}
	if c.appID == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("applicationId", c.appID)
	params.Set("format", "json")
	params.Set("formatVersion", "2")
	params.Set("keyword", strings.Join(ingredients, " "))
	params.Set("hits", "5")

	var resp rakutenRecipeResponse
	if err := getJSON(ctx, c.http, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, errors.Wrap(err, "rakuten recipe search")
	}

	recipes := make([]RakutenRecipe, 0, len(resp.Recipes))
	for _, r := range resp.Recipes {
		recipes = append(recipes, RakutenRecipe{
			Title:       r.RecipeTitle,
			URL:         r.RecipeURL,
			ImageURL:    r.FoodImageURL,
			Ingredients: r.RecipeMaterial,
		})
	}
	return recipes, nil
}
