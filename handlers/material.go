package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models"
)

func ListMaterials(c *gin.Context) {
	results, err := models.GetMaterials(c.Request.Context(), nameQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func GetMaterial(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetMaterial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func CreateMaterial(c *gin.Context) {
	var input models.NewMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.CreateMaterial(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func UpdateMaterial(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.UpdateMaterial(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DeleteMaterial(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteMaterial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
