package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/models/reports"
)

func revenueGroupBy(c *gin.Context) reports.RevenueGroupBy {
	groupBy := reports.RevenueGroupBy(c.DefaultQuery("groupBy", string(reports.RevenueGroupByDay)))
	return groupBy
}

func RevenueReport(c *gin.Context) {
	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	result, err := reports.GetRevenueReport(c.Request.Context(), from, to, revenueGroupBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func ProfitReport(c *gin.Context) {
	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	result, err := reports.GetProfitReport(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func BusinessSummary(c *gin.Context) {
	result, err := reports.GetBusinessSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportRevenueExcel streams the revenue report as an xlsx download.
func ExportRevenueExcel(c *gin.Context) {
	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	f, err := reports.BuildRevenueExcel(c.Request.Context(), from, to, revenueGroupBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=doanh-thu.xlsx")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
