package utils

import (
	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID from the verified access
// token and stores it in the request context.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userName", claims.Name)
	ctx.Next()
}

// AdminOnlyMiddleware loads the current user record and requires the stored
// role to be ADMIN. The role embedded in the token is not trusted here: a
// demoted admin must lose the permission on their next request.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)

	var user models.User
	if err := storage.DB.Select("id, role").First(&user, claims.ID).Error; err != nil {
		CreateError(iris.StatusUnauthorized, "Unauthorized", "User not found.", ctx)
		return
	}

	if user.Role != models.RoleAdmin {
		CreateForbidden(ctx)
		return
	}

	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userName", claims.Name)
	ctx.Next()
}

// CurrentUserID returns the user id placed in the context by the token
// middlewares, or 0 when the request is unauthenticated.
func CurrentUserID(ctx iris.Context) uint {
	if v := ctx.Values().Get("userID"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func CurrentUserName(ctx iris.Context) string {
	if v := ctx.Values().Get("userName"); v != nil {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
