package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportDB(t *testing.T) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	config.SetDB(db)
	models.MigrateTable()
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		config.SetDB(nil)
	})
}

// seedPaidSale creates a product and a paid single-line invoice for it.
func seedPaidSale(t *testing.T, name string, price, cost, sellQty int64) {
	t.Helper()
	ctx := context.Background()
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name: name, Price: price, Cost: cost, Quantity: 1000,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	_, err = models.CreateInvoice(ctx, &models.NewInvoice{
		Items: []models.NewInvoiceItem{{ProductId: &product.ID, Quantity: decimal.NewFromInt(sellQty)}},
		Paid:  true,
	})
	if err != nil {
		t.Fatalf("create paid invoice: %v", err)
	}
}

func TestRevenueReportBucketsPaidInvoices(t *testing.T) {
	setupReportDB(t)
	ctx := context.Background()

	seedPaidSale(t, "Gạch bóng kiếng", 500000, 200000, 1)

	// Pending invoices stay out of revenue.
	product, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Hàng chờ", Price: 999999, Quantity: 10})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := models.CreateInvoice(ctx, &models.NewInvoice{
		Items: []models.NewInvoiceItem{{ProductId: &product.ID, Quantity: decimal.NewFromInt(1)}},
	}); err != nil {
		t.Fatalf("create pending invoice: %v", err)
	}

	today := time.Now()
	buckets, err := GetRevenueReport(ctx, today, today, RevenueGroupByDay)
	if err != nil {
		t.Fatalf("revenue report: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected one bucket, got %d", len(buckets))
	}
	b := buckets[0]
	if b.Period != today.Format("2006-01-02") {
		t.Fatalf("unexpected period %s", b.Period)
	}
	if b.Revenue != 500000 || b.Cost != 200000 || b.Profit != 300000 {
		t.Fatalf("unexpected bucket %+v", b)
	}
	if b.InvoiceCount != 1 {
		t.Fatalf("expected one invoice counted, got %d", b.InvoiceCount)
	}
}

func TestRevenueReportRejectsBadInput(t *testing.T) {
	setupReportDB(t)
	ctx := context.Background()

	today := time.Now()
	if _, err := GetRevenueReport(ctx, today, today.AddDate(0, 0, -1), RevenueGroupByDay); err == nil {
		t.Fatal("expected inverted range error")
	}
	if _, err := GetRevenueReport(ctx, today, today, "week"); err == nil {
		t.Fatal("expected invalid groupBy error")
	}
}

func TestProfitReportMarginAndTopProducts(t *testing.T) {
	setupReportDB(t)
	ctx := context.Background()

	seedPaidSale(t, "Gạch loại 1", 500000, 200000, 1)
	seedPaidSale(t, "Gạch loại 2", 100000, 50000, 2)

	// Purchasing spend is the cost side of this report.
	material, err := models.CreateMaterial(ctx, &models.NewMaterial{Name: "Xi măng", Cost: 150000})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if _, err := models.CreatePurchase(ctx, &models.NewPurchase{
		Items: []models.NewPurchaseItem{{MaterialId: material.ID, Quantity: decimal.NewFromInt(2), UnitCost: 150000}},
	}); err != nil {
		t.Fatalf("create purchase: %v", err)
	}

	today := time.Now()
	report, err := GetProfitReport(ctx, today, today)
	if err != nil {
		t.Fatalf("profit report: %v", err)
	}

	if report.Revenue != 700000 || report.Cost != 300000 || report.Profit != 400000 {
		t.Fatalf("unexpected summary %+v", report)
	}
	// 400000 / 700000 ≈ 57.14%
	wantMargin, _ := decimal.NewFromString("57.14")
	if !report.Margin.Equal(wantMargin) {
		t.Fatalf("expected margin 57.14, got %s", report.Margin)
	}

	if len(report.TopProducts) != 2 {
		t.Fatalf("expected two products, got %d", len(report.TopProducts))
	}
	if report.TopProducts[0].ProductName != "Gạch loại 1" {
		t.Fatalf("expected highest revenue first, got %s", report.TopProducts[0].ProductName)
	}
	if len(report.MonthlyData) != 1 {
		t.Fatalf("expected one month bucket, got %d", len(report.MonthlyData))
	}
	month := report.MonthlyData[0]
	if month.Month != today.Format("2006-01") || month.Revenue != 700000 || month.Cost != 300000 {
		t.Fatalf("unexpected month bucket %+v", month)
	}
}

func TestProfitReportCoversEmptyMonths(t *testing.T) {
	setupReportDB(t)
	ctx := context.Background()

	to := time.Now()
	from := to.AddDate(0, -2, 0)
	report, err := GetProfitReport(ctx, from, to)
	if err != nil {
		t.Fatalf("profit report: %v", err)
	}
	if len(report.MonthlyData) != 3 {
		t.Fatalf("expected three month buckets, got %d", len(report.MonthlyData))
	}
	for _, month := range report.MonthlyData {
		if month.Revenue != 0 || month.Cost != 0 || month.Profit != 0 {
			t.Fatalf("expected empty month, got %+v", month)
		}
	}
}

func TestProfitReportZeroRevenueHasZeroMargin(t *testing.T) {
	setupReportDB(t)
	ctx := context.Background()

	today := time.Now()
	report, err := GetProfitReport(ctx, today, today)
	if err != nil {
		t.Fatalf("profit report: %v", err)
	}
	if !report.Margin.IsZero() {
		t.Fatalf("expected zero margin, got %s", report.Margin)
	}
}

func TestBusinessSummaryBalance(t *testing.T) {
	setupReportDB(t)
	ctx := context.Background()

	seedPaidSale(t, "Gạch sân vườn", 300000, 100000, 1)

	material, err := models.CreateMaterial(ctx, &models.NewMaterial{Name: "Xi măng rời", Cost: 50000})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if _, err := models.CreatePurchase(ctx, &models.NewPurchase{
		Items: []models.NewPurchaseItem{{MaterialId: material.ID, Quantity: decimal.NewFromInt(2), UnitCost: 50000}},
	}); err != nil {
		t.Fatalf("create purchase: %v", err)
	}

	summary, err := GetBusinessSummary(ctx)
	if err != nil {
		t.Fatalf("business summary: %v", err)
	}
	if summary.Income != 300000 || summary.Expense != 100000 || summary.Balance != 200000 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.ProductCount != 1 || summary.MaterialCount != 1 {
		t.Fatalf("unexpected counts %+v", summary)
	}
	if summary.InvoiceCount != 1 || summary.PurchaseCount != 1 {
		t.Fatalf("unexpected document counts %+v", summary)
	}
}

func TestBuildRevenueExcel(t *testing.T) {
	setupReportDB(t)
	ctx := context.Background()

	seedPaidSale(t, "Gạch ốp tường", 200000, 80000, 1)

	today := time.Now()
	f, err := BuildRevenueExcel(ctx, today, today, RevenueGroupByDay)
	if err != nil {
		t.Fatalf("build excel: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Sheet1", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "200000" {
		t.Fatalf("expected revenue cell 200000, got %q", got)
	}
}
