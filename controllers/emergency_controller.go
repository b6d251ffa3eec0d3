package controllers

import (
	"net/http"

	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/services"

	"github.com/gin-gonic/gin"
)

type IEmergencyController interface {
	FindAll(ctx *gin.Context)
	FindById(ctx *gin.Context)
	Expiring(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

// EmergencyController serves the shared stockpile; items are not scoped to
// the caller.
type EmergencyController struct {
	service services.IEmergencyService
}

func NewEmergencyController(service services.IEmergencyService) IEmergencyController {
	return &EmergencyController{service: service}
}

func (c *EmergencyController) FindAll(ctx *gin.Context) {
	items, err := c.service.FindAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": items})
}

func (c *EmergencyController) FindById(ctx *gin.Context) {
	itemID, ok := parseID(ctx)
	if !ok {
		return
	}

	item, err := c.service.FindById(ctx.Request.Context(), itemID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": item})
}

func (c *EmergencyController) Expiring(ctx *gin.Context) {
	days, ok := queryDays(ctx, constants.DefaultEmergencyDays)
	if !ok {
		return
	}

	items, err := c.service.FindExpiring(ctx.Request.Context(), days)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": items})
}

func (c *EmergencyController) Create(ctx *gin.Context) {
	var input dto.CreateEmergencyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	newItem, err := c.service.Create(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": newItem})
}

func (c *EmergencyController) Update(ctx *gin.Context) {
	itemID, ok := parseID(ctx)
	if !ok {
		return
	}

	var input dto.UpdateEmergencyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	updatedItem, err := c.service.Update(ctx.Request.Context(), itemID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": updatedItem})
}

func (c *EmergencyController) Delete(ctx *gin.Context) {
	itemID, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), itemID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
