package controllers

import (
	"net/http"

	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/models"
	"gin-inventory/services"

	"github.com/gin-gonic/gin"
)

type IFoodController interface {
	FindAll(ctx *gin.Context)
	FindById(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	FindByCategory(ctx *gin.Context)
	ExpiringSoon(ctx *gin.Context)
	Categories(ctx *gin.Context)
	Options(ctx *gin.Context)
	Use(ctx *gin.Context)
	LookupBarcode(ctx *gin.Context)
	RegisterByBarcode(ctx *gin.Context)
	RecipeSuggestions(ctx *gin.Context)
	RecipeByMainFood(ctx *gin.Context)
}

type FoodController struct {
	service       services.IFoodService
	recipeService services.IRecipeService
}

func NewFoodController(service services.IFoodService, recipeService services.IRecipeService) IFoodController {
	return &FoodController{service: service, recipeService: recipeService}
}

func (c *FoodController) FindAll(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	foods, err := c.service.FindAll(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": foods})
}

func (c *FoodController) FindById(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	foodID, ok := parseID(ctx)
	if !ok {
		return
	}

	food, err := c.service.FindById(ctx.Request.Context(), foodID, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": food})
}

func (c *FoodController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.CreateFoodInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	newFood, err := c.service.Create(ctx.Request.Context(), input, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": newFood})
}

func (c *FoodController) Update(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	foodID, ok := parseID(ctx)
	if !ok {
		return
	}

	var input dto.UpdateFoodInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	updatedFood, err := c.service.Update(ctx.Request.Context(), foodID, user.ID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": updatedFood})
}

func (c *FoodController) Delete(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	foodID, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), foodID, user.ID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *FoodController) FindByCategory(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	foods, err := c.service.FindByCategory(ctx.Request.Context(), user.ID, models.FoodCategory(ctx.Query("category")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": foods})
}

func (c *FoodController) ExpiringSoon(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	days, ok := queryDays(ctx, constants.DefaultExpiringDays)
	if !ok {
		return
	}

	foods, err := c.service.FindExpiringSoon(ctx.Request.Context(), user.ID, days)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": foods})
}

func (c *FoodController) Categories(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	categories, err := c.service.FindCategories(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": categories})
}

func (c *FoodController) Options(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"data": c.service.Options()})
}

func (c *FoodController) Use(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	foodID, ok := parseID(ctx)
	if !ok {
		return
	}

	var input dto.UseFoodInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, err := c.service.Use(ctx.Request.Context(), foodID, user.ID, input.UsedQuantity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

func (c *FoodController) LookupBarcode(ctx *gin.Context) {
	product, err := c.service.LookupBarcode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": product})
}

func (c *FoodController) RegisterByBarcode(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.RegisterByBarcodeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	food, err := c.service.RegisterByBarcode(ctx.Request.Context(), input, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": food})
}

func (c *FoodController) RecipeSuggestions(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	days, ok := queryDays(ctx, constants.DefaultExpiringDays)
	if !ok {
		return
	}

	suggestion, err := c.recipeService.Suggest(ctx.Request.Context(), user.ID, days)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": suggestion})
}

func (c *FoodController) RecipeByMainFood(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	suggestion, err := c.recipeService.ByMainFood(ctx.Request.Context(), user.ID, ctx.Query("food_name"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": suggestion})
}
