package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models"
)

func ListProducts(c *gin.Context) {
	results, err := models.GetProducts(c.Request.Context(), nameQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func GetProduct(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func UpdateProduct(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DeleteProduct(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
