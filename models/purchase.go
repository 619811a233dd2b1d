package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/utils"
	"gorm.io/gorm"
)

type Purchase struct {
	ID        int            `gorm:"primary_key" json:"id"`
	Code      string         `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Supplier  string         `gorm:"size:255" json:"supplier"`
	Items     []PurchaseItem `gorm:"foreignKey:PurchaseId" json:"items"`
	Subtotal  int64          `gorm:"not null;default:0" json:"subtotalCents"`
	Discount  int64          `gorm:"not null;default:0" json:"discountCents"`
	Tax       int64          `gorm:"not null;default:0" json:"taxCents"`
	Total     int64          `gorm:"not null;default:0" json:"totalCents"`
	Status    PurchaseStatus `gorm:"size:20;default:'RECEIVED'" json:"status"`
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

type PurchaseItem struct {
	ID            int         `gorm:"primary_key" json:"id"`
	PurchaseId    int         `gorm:"not null;index" json:"purchaseId"`
	MaterialId    int         `gorm:"not null;index" json:"materialId"`
	MaterialName  string      `gorm:"size:255;not null" json:"materialName"`
	Unit          ProductUnit `gorm:"size:10;not null" json:"unit"`
	UnitCost      int64       `gorm:"not null" json:"unitCostCents"`
	Quantity      int64       `gorm:"not null" json:"quantity"`
	QuantityScale int64       `gorm:"not null;default:1" json:"quantityScale"`
	Total         int64       `gorm:"not null" json:"totalCents"`
}

// NewPurchase carries discount and tax only; subtotal and total are always
// computed server side from the lines.
type NewPurchase struct {
	Supplier string            `json:"supplier"`
	Items    []NewPurchaseItem `json:"items" binding:"required,min=1,dive"`
	Discount int64             `json:"discountCents"`
	Tax      int64             `json:"taxCents"`
	Notes    string            `json:"notes"`
}

type NewPurchaseItem struct {
	MaterialId int             `json:"materialId" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost   int64           `json:"unitCostCents"`
}

func (input *NewPurchase) validate() error {
	if input.Discount < 0 {
		return utils.NewBusinessError("chiết khấu không được âm")
	}
	if input.Tax < 0 {
		return utils.NewBusinessError("thuế không được âm")
	}
	for _, item := range input.Items {
		if !item.Quantity.IsPositive() {
			return utils.NewBusinessError("số lượng nhập phải lớn hơn 0")
		}
		if item.UnitCost < 0 {
			return utils.NewBusinessError("đơn giá nhập không được âm")
		}
	}
	return nil
}

// CreatePurchase receives goods in one transaction: the code is minted,
// every material's stock goes up and its unit cost is overwritten with the
// latest purchase cost, the total is computed server side and an expense
// entry lands in the cash flow ledger.
func CreatePurchase(ctx context.Context, input *NewPurchase) (*Purchase, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	tx := db.WithContext(ctx).Begin()

	code, err := nextDailyCode(tx, codeScopePurchase, now)
	if err != nil {
		tx.Rollback()
		config.LogError(logger, "models", "CreatePurchase", "mint code", nil, err)
		return nil, err
	}

	purchase := Purchase{
		Code:     code,
		Supplier: input.Supplier,
		Discount: input.Discount,
		Tax:      input.Tax,
		Status:   PurchaseStatusReceived,
		Notes:    input.Notes,
	}
	if err := tx.Create(&purchase).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	subtotal, err := buildPurchaseItems(tx, purchase.ID, input.Items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	purchase.Subtotal = subtotal
	purchase.Total = invoiceTotal(subtotal, input.Discount, input.Tax)
	if err := tx.Model(&purchase).Updates(map[string]interface{}{
		"subtotal": purchase.Subtotal,
		"total":    purchase.Total,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	entry := CashFlow{
		Type:       CashFlowTypeExpense,
		Amount:     purchase.Total,
		Category:   "Nhập hàng",
		Notes:      "Chi tiền phiếu nhập " + purchase.Code,
		OccurredAt: now,
		PurchaseId: &purchase.ID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		config.LogError(logger, "models", "CreatePurchase", "commit", nil, err)
		return nil, err
	}
	return GetPurchase(ctx, purchase.ID)
}

// buildPurchaseItems receives every line into stock: material quantity goes
// up, material cost is overwritten with the line's unit cost, and the line
// row is inserted. Returns the purchase subtotal.
func buildPurchaseItems(tx *gorm.DB, purchaseId int, items []NewPurchaseItem) (int64, error) {
	var subtotal int64
	for _, item := range items {
		var material Material
		if err := tx.First(&material, item.MaterialId).Error; err != nil {
			return 0, utils.NewBusinessError("nguyên liệu không tồn tại")
		}

		storedQty := scaledQuantity(item.Quantity, material.QuantityScale)
		if storedQty <= 0 {
			return 0, utils.NewBusinessError("số lượng nhập phải lớn hơn 0")
		}

		unitCost := item.UnitCost
		if unitCost == 0 {
			unitCost = material.Cost
		}
		lineTotal := LineAmount(storedQty, unitCost, material.QuantityScale)

		err := tx.Model(&Material{}).Where("id = ?", material.ID).Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", storedQty),
			"cost":     unitCost,
		}).Error
		if err != nil {
			return 0, err
		}

		row := PurchaseItem{
			PurchaseId:    purchaseId,
			MaterialId:    material.ID,
			MaterialName:  material.Name,
			Unit:          material.Unit,
			UnitCost:      unitCost,
			Quantity:      storedQty,
			QuantityScale: material.QuantityScale,
			Total:         lineTotal,
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, err
		}
		subtotal += lineTotal
	}
	return subtotal, nil
}

// reversePurchaseStock takes received quantities back out with a guarded
// decrement, so material already consumed below the received amount aborts
// the caller's transaction.
func reversePurchaseStock(tx *gorm.DB, items []PurchaseItem) error {
	for _, item := range items {
		res := tx.Model(&Material{}).
			Where("id = ? AND quantity >= ?", item.MaterialId, item.Quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return utils.NewBusinessError(
				fmt.Sprintf("nguyên liệu %s đã được sử dụng, không thể hoàn tác phiếu nhập", item.MaterialName))
		}
	}
	return nil
}

// UpdatePurchase rewrites the receipt: the old lines are reversed out of
// stock, the new lines applied, totals recomputed and the expense ledger
// entry kept in sync. One transaction end to end.
func UpdatePurchase(ctx context.Context, id int, input *NewPurchase) (*Purchase, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}

	tx := db.WithContext(ctx).Begin()

	var purchase Purchase
	if err := tx.Preload("Items").First(&purchase, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if err := reversePurchaseStock(tx, purchase.Items); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("purchase_id = ?", id).Delete(&PurchaseItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// The loaded struct still holds the deleted rows; gorm would save them
	// back as associations on the next update.
	purchase.Items = nil

	subtotal, err := buildPurchaseItems(tx, purchase.ID, input.Items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	total := invoiceTotal(subtotal, input.Discount, input.Tax)
	if err := tx.Model(&purchase).Updates(map[string]interface{}{
		"supplier": input.Supplier,
		"subtotal": subtotal,
		"discount": input.Discount,
		"tax":      input.Tax,
		"total":    total,
		"notes":    input.Notes,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&CashFlow{}).Where("purchase_id = ?", id).Updates(map[string]interface{}{
		"amount": total,
		"notes":  "Chi tiền phiếu nhập " + purchase.Code,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetPurchase(ctx, id)
}

func GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	db := config.GetDB()
	var result Purchase
	if err := db.WithContext(ctx).Preload("Items").First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetPurchases(ctx context.Context, from, to *time.Time) ([]*Purchase, error) {
	db := config.GetDB()
	var results []*Purchase

	dbCtx := db.WithContext(ctx).Preload("Items")
	if from != nil {
		dbCtx = dbCtx.Where("created_at >= ?", utils.StartOfDay(*from))
	}
	if to != nil {
		dbCtx = dbCtx.Where("created_at <= ?", utils.EndOfDay(*to))
	}
	if err := dbCtx.Order("created_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeletePurchase undoes a receipt: stock is taken back out with a guarded
// decrement so a material already consumed below the received quantity blocks
// the deletion, and the expense ledger entry is removed.
func DeletePurchase(ctx context.Context, id int) (*Purchase, error) {
	db := config.GetDB()

	tx := db.WithContext(ctx).Begin()

	var purchase Purchase
	if err := tx.Preload("Items").First(&purchase, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if err := reversePurchaseStock(tx, purchase.Items); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Where("purchase_id = ?", id).Delete(&CashFlow{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("purchase_id = ?", id).Delete(&PurchaseItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(&Purchase{}, id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}
