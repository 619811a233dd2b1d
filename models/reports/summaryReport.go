package reports

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/models"
	"gorm.io/gorm"
)

type BusinessSummary struct {
	ProductCount  int64 `json:"productCount"`
	MaterialCount int64 `json:"materialCount"`
	CustomerCount int64 `json:"customerCount"`
	InvoiceCount  int64 `json:"invoiceCount"`
	PurchaseCount int64 `json:"purchaseCount"`
	Income        int64 `json:"incomeCents"`
	Expense       int64 `json:"expenseCents"`
	Balance       int64 `json:"balanceCents"`
}

func sumCashFlow(ctx context.Context, db *gorm.DB, flowType models.CashFlowType) (int64, error) {
	var total decimal.NullDecimal
	row := db.WithContext(ctx).Model(&models.CashFlow{}).
		Where("type = ?", flowType).
		Select("SUM(amount)").
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Decimal.IntPart(), nil
}

// GetBusinessSummary is the dashboard snapshot: record counts plus the running
// cash position over the whole ledger.
func GetBusinessSummary(ctx context.Context) (*BusinessSummary, error) {
	db := config.GetDB()
	summary := &BusinessSummary{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Product{}, &summary.ProductCount},
		{&models.Material{}, &summary.MaterialCount},
		{&models.Customer{}, &summary.CustomerCount},
		{&models.Invoice{}, &summary.InvoiceCount},
		{&models.Purchase{}, &summary.PurchaseCount},
	}
	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	income, err := sumCashFlow(ctx, db, models.CashFlowTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := sumCashFlow(ctx, db, models.CashFlowTypeExpense)
	if err != nil {
		return nil, err
	}

	summary.Income = income
	summary.Expense = expense
	summary.Balance = income - expense
	return summary, nil
}
