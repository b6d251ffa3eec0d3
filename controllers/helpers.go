package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gin-inventory/constants"
	"gin-inventory/errs"
	"gin-inventory/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func currentUser(ctx *gin.Context) (*models.User, bool) {
	user, exists := ctx.Get("user")
	if !exists {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, errs.NewUnauthorizedError(constants.ErrUnauthorized))
		return nil, false
	}
	userModel, ok := user.(*models.User)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, errs.NewUnauthorizedError(constants.ErrUnauthorized))
		return nil, false
	}
	return userModel, true
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(ctx, errs.NewBadRequestError(constants.ErrInvalidID))
		return 0, false
	}
	return uint(id), true
}

func queryDays(ctx *gin.Context, fallback int) (int, bool) {
	raw := ctx.Query("days")
	if raw == "" {
		return fallback, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		respondError(ctx, errs.NewBadRequestError("days must be a non-negative integer"))
		return 0, false
	}
	return days, true
}

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// respondBindError reports a failed ShouldBind with the validator's message.
func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":   constants.ErrInvalidInput,
		"code":    errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest)),
		"details": err.Error(),
	})
}

// respondError writes an HTTPError as is. Anything else is logged and hidden
// behind a 500.
func respondError(ctx *gin.Context, err error) {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		ctx.JSON(httpErr.Status, httpErr)
		return
	}

	zerolog.Ctx(ctx.Request.Context()).Error().
		Err(err).
		Str("method", ctx.Request.Method).
		Str("path", ctx.FullPath()).
		Msg("unexpected error")
	_ = ctx.Error(err)
	ctx.JSON(http.StatusInternalServerError, errs.NewInternalServerError())
}
