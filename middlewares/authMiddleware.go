package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models"
	"github.com/vshopvn/banhang_backend/utils"
)

// AuthMiddleware rejects requests without a valid bearer token and stores the
// claims on the request context for handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "yêu cầu đăng nhập"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "phiên đăng nhập không hợp lệ"})
			c.Abort()
			return
		}

		customClaim, _ := validate.Claims.(*utils.JwtCustomClaim)

		ctx := utils.SetUserIdInContext(c.Request.Context(), customClaim.ID)
		ctx = utils.SetUserEmailInContext(ctx, customClaim.Email)
		ctx = utils.SetUserRoleInContext(ctx, customClaim.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminOnly requires AuthMiddleware to have run earlier in the chain.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := utils.GetUserRoleFromContext(c.Request.Context())
		if !ok || role != string(models.UserRoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "chỉ quản trị viên mới được phép"})
			c.Abort()
			return
		}
		c.Next()
	}
}
