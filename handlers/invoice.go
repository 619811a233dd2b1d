package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models"
)

func ListInvoices(c *gin.Context) {
	filter := models.InvoiceFilter{}

	if raw := c.Query("status"); raw != "" {
		status := models.InvoiceStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "trạng thái hóa đơn không hợp lệ"})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("customerId"); raw != "" {
		customerId, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customerId không hợp lệ"})
			return
		}
		filter.CustomerId = &customerId
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

	results, err := models.GetInvoices(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func GetInvoice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func CreateInvoice(c *gin.Context) {
	var input models.NewInvoice
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.CreateInvoice(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func UpdateInvoice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewInvoice
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := models.UpdateInvoice(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func PayInvoice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.PayInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func CancelInvoice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func DeleteInvoice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
