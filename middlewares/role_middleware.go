package middlewares

import (
	"strings"

	"gin-inventory/constants"
	"gin-inventory/errs"
	"gin-inventory/models"

	"github.com/gin-gonic/gin"
)

// RoleBasedAccessControl 指定されたロールのみアクセスを許可するミドルウェア
// AuthMiddlewareの後に使用することを想定（ctxに"user"が設定されている必要がある）
func RoleBasedAccessControl(allowedRoles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := ctx.Get("user")
		if !exists {
			abortWithError(ctx, errs.NewUnauthorizedError(constants.ErrUnauthorized))
			return
		}

		userModel, ok := user.(*models.User)
		if !ok {
			abortWithError(ctx, errs.NewUnauthorizedError(constants.ErrUnauthorized))
			return
		}

		// トークンではなくDBから取得したroleで判定する
		userRole := strings.TrimSpace(strings.ToLower(userModel.Role))
		for _, allowedRole := range allowedRoles {
			if userRole == strings.TrimSpace(strings.ToLower(allowedRole)) {
				ctx.Next()
				return
			}
		}

		GetLogger(ctx).Warn().
			Uint("user_id", userModel.ID).
			Str("role", userModel.Role).
			Strs("allowed_roles", allowedRoles).
			Msg("access denied")
		abortWithError(ctx, errs.NewForbiddenError("Insufficient permissions"))
	}
}
