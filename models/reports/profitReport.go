package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/models"
	"github.com/vshopvn/banhang_backend/utils"
	"gorm.io/gorm"
)

type ProductSales struct {
	ProductId   int             `json:"productId"`
	ProductName string          `json:"productName"`
	SoldQty     decimal.Decimal `json:"soldQty"`
	Revenue     int64           `json:"revenueCents"`
}

type ProfitMonth struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenueCents"`
	Cost    int64  `json:"costCents"`
	Profit  int64  `json:"profitCents"`
}

// ProfitReport contrasts sales income with purchasing spend. Cost here is
// what was actually paid for incoming stock in the range, unlike the revenue
// report's per-line cost basis.
type ProfitReport struct {
	Revenue     int64           `json:"revenueCents"`
	Cost        int64           `json:"costCents"`
	Profit      int64           `json:"profitCents"`
	Margin      decimal.Decimal `json:"marginPercent"`
	MonthlyData []*ProfitMonth  `json:"monthlyData"`
	TopProducts []*ProductSales `json:"topProducts"`
}

const topProductLimit = 5

func purchasesBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", utils.StartOfDay(from), utils.EndOfDay(to)).
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// GetProfitReport sums paid invoices as revenue and purchases created in the
// range as cost, walking every calendar month the range touches so quiet
// months still show up with zeros. Margin is zero when there is no revenue.
func GetProfitReport(ctx context.Context, from, to time.Time) (*ProfitReport, error) {
	db := config.GetDB()

	if to.Before(from) {
		return nil, utils.NewBusinessError("khoảng thời gian báo cáo không hợp lệ")
	}

	invoices, err := paidInvoicesBetween(ctx, db, from, to)
	if err != nil {
		return nil, err
	}
	purchases, err := purchasesBetween(ctx, db, from, to)
	if err != nil {
		return nil, err
	}

	report := &ProfitReport{}

	months := make(map[string]*ProfitMonth)
	for cursor := utils.StartOfMonth(from); !cursor.After(to); cursor = cursor.AddDate(0, 1, 0) {
		key := cursor.Format("2006-01")
		month := &ProfitMonth{Month: key}
		months[key] = month
		report.MonthlyData = append(report.MonthlyData, month)
	}

	for _, invoice := range invoices {
		report.Revenue += invoice.Total
		if month, ok := months[invoice.PaidAt.Format("2006-01")]; ok {
			month.Revenue += invoice.Total
		}
	}
	for _, purchase := range purchases {
		report.Cost += purchase.Total
		if month, ok := months[purchase.CreatedAt.Format("2006-01")]; ok {
			month.Cost += purchase.Total
		}
	}
	for _, month := range report.MonthlyData {
		month.Profit = month.Revenue - month.Cost
	}

	report.Profit = report.Revenue - report.Cost
	if report.Revenue > 0 {
		report.Margin = decimal.NewFromInt(report.Profit).
			Div(decimal.NewFromInt(report.Revenue)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	byProduct := make(map[int]*ProductSales)
	for _, invoice := range invoices {
		for _, item := range invoice.Items {
			sales, ok := byProduct[item.ProductId]
			if !ok {
				sales = &ProductSales{ProductId: item.ProductId, ProductName: item.ProductName}
				byProduct[item.ProductId] = sales
			}
			sales.SoldQty = sales.SoldQty.Add(
				decimal.NewFromInt(item.Quantity).Div(decimal.NewFromInt(item.QuantityScale)))
			sales.Revenue += item.Total
		}
	}

	top := make([]*ProductSales, 0, len(byProduct))
	for _, sales := range byProduct {
		top = append(top, sales)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].ProductId < top[j].ProductId
	})
	if len(top) > topProductLimit {
		top = top[:topProductLimit]
	}
	report.TopProducts = top

	return report, nil
}
