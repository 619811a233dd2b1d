package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/utils"
)

// respondError translates domain errors into HTTP responses. Anything that is
// not a known business failure is logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "không tìm thấy dữ liệu"})
	case utils.IsBusinessError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger := config.GetLogger()
		ctx := c.Request.Context()
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		email, _ := utils.GetUserEmailFromContext(ctx)
		config.LogError(logger, "handlers", "respondError", c.FullPath(), map[string]string{
			"correlationId": correlationId,
			"user":          email,
		}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "đã xảy ra lỗi, vui lòng thử lại"})
	}
}

func respondBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "dữ liệu không hợp lệ",
			"fields": utils.ProcessValidationErrors(validationErrors),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "dữ liệu không hợp lệ"})
}

func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id không hợp lệ"})
		return 0, false
	}
	return id, true
}

func nameQuery(c *gin.Context) *string {
	name := c.Query("name")
	if name == "" {
		return nil
	}
	return &name
}

// dateQuery reads an optional YYYY-MM-DD query parameter. The bool reports
// whether the request can proceed.
func dateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := utils.ParseDateParam(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ngày " + key + " không hợp lệ, dùng định dạng YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}

// dateRangeQuery reads required from/to parameters for report endpoints.
func dateRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	from, ok := dateQuery(c, "from")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if from == nil || to == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cần cung cấp ngày from và to"})
		return time.Time{}, time.Time{}, false
	}
	return *from, *to, true
}
