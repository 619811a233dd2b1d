package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models"
)

func ListCustomers(c *gin.Context) {
	results, err := models.GetCustomers(c.Request.Context(), nameQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func GetCustomer(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func CreateCustomer(c *gin.Context) {
	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func UpdateCustomer(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.UpdateCustomer(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DeleteCustomer(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
