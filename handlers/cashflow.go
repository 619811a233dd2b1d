package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models"
)

func ListCashFlows(c *gin.Context) {
	filter := models.CashFlowFilter{}

	if raw := c.Query("type"); raw != "" {
		flowType := models.CashFlowType(raw)
		if !flowType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "loại phiếu thu chi không hợp lệ"})
			return
		}
		filter.Type = &flowType
	}
	from, ok := dateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return
	}
	filter.From = from
	filter.To = to

	results, err := models.GetCashFlows(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func GetCashFlow(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetCashFlow(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func CreateCashFlow(c *gin.Context) {
	var input models.NewCashFlow
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.CreateCashFlow(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func UpdateCashFlow(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewCashFlow
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.UpdateCashFlow(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DeleteCashFlow(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteCashFlow(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
