package controllers

import (
	"net/http"

	"gin-inventory/dto"
	"gin-inventory/errs"
	"gin-inventory/services"

	"github.com/gin-gonic/gin"
)

type IAuthController interface {
	Register(ctx *gin.Context)
	Login(ctx *gin.Context)
	Me(ctx *gin.Context)
	UpdateMe(ctx *gin.Context)
	ChangePassword(ctx *gin.Context)
	RequestPasswordReset(ctx *gin.Context)
	ResetPassword(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

type AuthController struct {
	service services.IAuthService
}

func NewAuthController(service services.IAuthService) IAuthController {
	return &AuthController{service: service}
}

func (c *AuthController) Register(ctx *gin.Context) {
	var input dto.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login accepts JSON as well as form posts from OAuth2-style clients.
func (c *AuthController) Login(ctx *gin.Context) {
	var input dto.LoginInput
	if err := ctx.ShouldBind(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": user})
}

func (c *AuthController) UpdateMe(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	updated, err := c.service.UpdateProfile(ctx.Request.Context(), user, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": updated})
}

func (c *AuthController) ChangePassword(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.ChangePasswordInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	if err := c.service.ChangePassword(ctx.Request.Context(), user, input); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (c *AuthController) RequestPasswordReset(ctx *gin.Context) {
	var input dto.PasswordResetRequestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	if err := c.service.RequestPasswordReset(ctx.Request.Context(), input.Email); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var input dto.ResetPasswordInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	if err := c.service.ResetPassword(ctx.Request.Context(), input.Token, input.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	tokenString, ok := bearerToken(ctx)
	if !ok {
		respondError(ctx, errs.NewUnauthorizedError("Authorization header is required"))
		return
	}

	if err := c.service.Logout(ctx.Request.Context(), tokenString); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
