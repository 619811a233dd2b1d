package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models"
	"github.com/vshopvn/banhang_backend/utils"
)

func Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.Login(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me returns the authenticated user's own record.
func Me(c *gin.Context) {
	userId, ok := utils.GetUserIdFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "yêu cầu đăng nhập"})
		return
	}
	result, err := models.GetUser(c.Request.Context(), userId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
