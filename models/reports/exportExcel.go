package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// BuildRevenueExcel renders the revenue report as a workbook. The caller owns
// the file and should close it after writing.
func BuildRevenueExcel(ctx context.Context, from, to time.Time, groupBy RevenueGroupBy) (*excelize.File, error) {
	data, err := GetRevenueReport(ctx, from, to, groupBy)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "Kỳ")
	f.SetCellValue(sheetName, "B1", "Doanh thu")
	f.SetCellValue(sheetName, "C1", "Giá vốn")
	f.SetCellValue(sheetName, "D1", "Lợi nhuận")
	f.SetCellValue(sheetName, "E1", "Số hóa đơn")

	// Add data
	for i, d := range data {
		f.SetCellValue(sheetName, "A"+fmt.Sprint(i+2), d.Period)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(i+2), d.Revenue)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(i+2), d.Cost)
		f.SetCellValue(sheetName, "D"+fmt.Sprint(i+2), d.Profit)
		f.SetCellValue(sheetName, "E"+fmt.Sprint(i+2), d.InvoiceCount)
	}

	return f, nil
}
