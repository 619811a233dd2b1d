package reports

import (
	"context"
	"sort"
	"time"

	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/models"
	"github.com/vshopvn/banhang_backend/utils"
	"gorm.io/gorm"
)

type RevenueGroupBy string

const (
	RevenueGroupByDay   RevenueGroupBy = "day"
	RevenueGroupByMonth RevenueGroupBy = "month"
)

type RevenueBucket struct {
	Period       string `json:"period"`
	Revenue      int64  `json:"revenueCents"`
	Cost         int64  `json:"costCents"`
	Profit       int64  `json:"profitCents"`
	InvoiceCount int    `json:"invoiceCount"`
}

func periodKey(t time.Time, groupBy RevenueGroupBy) string {
	if groupBy == RevenueGroupByMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// paidInvoicesBetween loads PAID invoices with their items, bounded by payment
// time. Both ends of the range are inclusive.
func paidInvoicesBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := db.WithContext(ctx).Preload("Items").
		Where("status = ?", models.InvoiceStatusPaid).
		Where("paid_at >= ? AND paid_at <= ?", utils.StartOfDay(from), utils.EndOfDay(to)).
		Order("paid_at").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// productCostIndex maps product id to current unit cost. Line cost is derived
// from the catalogue because sold items snapshot price, not cost.
func productCostIndex(ctx context.Context, db *gorm.DB) (map[int]*models.Product, error) {
	var products []*models.Product
	if err := db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}
	index := make(map[int]*models.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index, nil
}

func invoiceCost(invoice *models.Invoice, products map[int]*models.Product) int64 {
	var cost int64
	for _, item := range invoice.Items {
		product, ok := products[item.ProductId]
		if !ok {
			continue
		}
		cost += models.LineAmount(item.Quantity, product.Cost, item.QuantityScale)
	}
	return cost
}

// GetRevenueReport aggregates paid invoices into day or month buckets keyed by
// payment time. Buckets are aggregated in Go rather than with dialect date
// functions, so the same query plan serves mysql and the test database.
func GetRevenueReport(ctx context.Context, from, to time.Time, groupBy RevenueGroupBy) ([]*RevenueBucket, error) {
	db := config.GetDB()

	if groupBy != RevenueGroupByDay && groupBy != RevenueGroupByMonth {
		return nil, utils.NewBusinessError("kiểu nhóm báo cáo không hợp lệ")
	}
	if to.Before(from) {
		return nil, utils.NewBusinessError("khoảng thời gian báo cáo không hợp lệ")
	}

	invoices, err := paidInvoicesBetween(ctx, db, from, to)
	if err != nil {
		return nil, err
	}
	products, err := productCostIndex(ctx, db)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*RevenueBucket)
	for _, invoice := range invoices {
		key := periodKey(*invoice.PaidAt, groupBy)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &RevenueBucket{Period: key}
			buckets[key] = bucket
		}
		bucket.Revenue += invoice.Total
		bucket.Cost += invoiceCost(invoice, products)
		bucket.InvoiceCount++
	}

	results := make([]*RevenueBucket, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Profit = bucket.Revenue - bucket.Cost
		results = append(results, bucket)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Period < results[j].Period })
	return results, nil
}
