package middlewares

import (
	"strings"

	"gin-inventory/constants"
	"gin-inventory/errs"
	"gin-inventory/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AuthMiddleware resolves the bearer token to a user and stores it under
// "user". Browsers cannot set headers on websocket handshakes, so upgrade
// requests may pass the token as ?access_token= instead.
func AuthMiddleware(authService services.IAuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := ""
		header := ctx.GetHeader("Authorization")
		switch {
		case strings.HasPrefix(header, "Bearer "):
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		case header == "" && websocket.IsWebSocketUpgrade(ctx.Request):
			tokenString = ctx.Query("access_token")
		}
		if tokenString == "" {
			abortWithError(ctx, errs.NewUnauthorizedError(constants.ErrUnauthorized))
			return
		}

		user, err := authService.GetUserFromToken(ctx.Request.Context(), tokenString)
		if err != nil {
			abortWithError(ctx, errs.NewUnauthorizedError(constants.ErrInvalidToken))
			return
		}

		ctx.Set("user", user)
		ctx.Set(UserIDKey, user.ID)

		ctx.Next()
	}
}

func abortWithError(ctx *gin.Context, err *errs.HTTPError) {
	ctx.AbortWithStatusJSON(err.Status, err)
}
