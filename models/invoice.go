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

type Invoice struct {
	ID         int           `gorm:"primary_key" json:"id"`
	Code       string        `gorm:"size:20;not null;uniqueIndex" json:"code"`
	CustomerId int           `gorm:"not null;index" json:"customerId"`
	Customer   *Customer     `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	Items      []InvoiceItem `gorm:"foreignKey:InvoiceId" json:"items"`
	Subtotal   int64         `gorm:"not null;default:0" json:"subtotalCents"`
	Discount   int64         `gorm:"not null;default:0" json:"discountCents"`
	Tax        int64         `gorm:"not null;default:0" json:"taxCents"`
	Total      int64         `gorm:"not null;default:0" json:"totalCents"`
	Status     InvoiceStatus `gorm:"size:20;default:'DRAFT'" json:"status"`
	Notes      string        `gorm:"type:text" json:"notes"`
	PaidAt     *time.Time    `json:"paidAt"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

// InvoiceItem snapshots the product name, unit and price at sale time so later
// catalogue edits do not rewrite history.
type InvoiceItem struct {
	ID            int         `gorm:"primary_key" json:"id"`
	InvoiceId     int         `gorm:"not null;index" json:"invoiceId"`
	ProductId     int         `gorm:"not null;index" json:"productId"`
	ProductName   string      `gorm:"size:255;not null" json:"productName"`
	Unit          ProductUnit `gorm:"size:10;not null" json:"unit"`
	UnitPrice     int64       `gorm:"not null" json:"unitPriceCents"`
	Quantity      int64       `gorm:"not null" json:"quantity"`
	QuantityScale int64       `gorm:"not null;default:1" json:"quantityScale"`
	Total         int64       `gorm:"not null" json:"totalCents"`
	// AdHoc lines sold an unstocked product; no stock was taken, so
	// reversal must skip them.
	AdHoc bool `gorm:"not null;default:false" json:"adHoc"`
}

type NewInvoice struct {
	CustomerId *int             `json:"customerId"`
	Customer   *NewCustomer     `json:"customer"`
	Items      []NewInvoiceItem `json:"items" binding:"required,min=1,dive"`
	Discount   int64            `json:"discountCents"`
	Tax        int64            `json:"taxCents"`
	Paid       bool             `json:"paid"`
	Notes      string           `json:"notes"`
}

// NewInvoiceItem references an existing product by id, or carries an inline
// descriptor to register an ad-hoc product on the fly. Exactly one of the two
// must be set.
type NewInvoiceItem struct {
	ProductId *int              `json:"productId"`
	Product   *NewInlineProduct `json:"product"`
	Quantity  decimal.Decimal   `json:"quantity" binding:"required"`
	UnitPrice *int64            `json:"unitPriceCents"`
}

// NewInlineProduct describes an ad-hoc product sold before it was ever
// stocked. The row is created with zero quantity and the sale does not touch
// stock.
type NewInlineProduct struct {
	Name          string      `json:"name" binding:"required"`
	Price         int64       `json:"priceCents"`
	Cost          int64       `json:"costCents"`
	Unit          ProductUnit `json:"unit"`
	QuantityScale int64       `json:"quantityScale"`
}

func (input *NewInvoice) validate() error {
	if input.Discount < 0 {
		return utils.NewBusinessError("chiết khấu không được âm")
	}
	if input.Tax < 0 {
		return utils.NewBusinessError("thuế không được âm")
	}
	if input.CustomerId != nil && input.Customer != nil {
		return utils.NewBusinessError("chỉ chọn khách hàng có sẵn hoặc tạo khách hàng mới, không chọn cả hai")
	}
	for _, item := range input.Items {
		if (item.ProductId == nil) == (item.Product == nil) {
			return utils.NewBusinessError("mỗi dòng hàng phải chọn sản phẩm có sẵn hoặc tạo sản phẩm mới")
		}
		if !item.Quantity.IsPositive() {
			return utils.NewBusinessError("số lượng bán phải lớn hơn 0")
		}
		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return utils.NewBusinessError("đơn giá không được âm")
		}
	}
	return nil
}

// resolveInvoiceCustomer returns the customer id to bill. Missing both id and
// inline input falls back to the shared walk-in customer, created on first use.
func resolveInvoiceCustomer(tx *gorm.DB, input *NewInvoice) (int, error) {
	if input.CustomerId != nil {
		var customer Customer
		if err := tx.First(&customer, *input.CustomerId).Error; err != nil {
			return 0, utils.NewBusinessError("khách hàng không tồn tại")
		}
		return customer.ID, nil
	}
	if input.Customer != nil {
		if err := input.Customer.validate(); err != nil {
			return 0, err
		}
		customer := Customer{
			Name:    input.Customer.Name,
			Phone:   input.Customer.Phone,
			Email:   input.Customer.Email,
			Address: input.Customer.Address,
			Notes:   input.Customer.Notes,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return 0, err
		}
		return customer.ID, nil
	}

	var walkIn Customer
	err := tx.Where("name = ?", walkInCustomerName).Take(&walkIn).Error
	if err == gorm.ErrRecordNotFound {
		walkIn = Customer{Name: walkInCustomerName}
		if err := tx.Create(&walkIn).Error; err != nil {
			return 0, err
		}
		return walkIn.ID, nil
	}
	if err != nil {
		return 0, err
	}
	return walkIn.ID, nil
}

// buildInvoiceItems resolves every line, decrements stock with a guarded
// update and returns the rows plus the invoice subtotal. Any shortfall fails
// the whole transaction, so stock is never partially taken.
func buildInvoiceItems(tx *gorm.DB, invoiceId int, items []NewInvoiceItem) ([]InvoiceItem, int64, error) {
	var rows []InvoiceItem
	var subtotal int64

	for _, item := range items {
		var product Product
		inline := item.ProductId == nil
		if !inline {
			if err := tx.First(&product, *item.ProductId).Error; err != nil {
				return nil, 0, utils.NewBusinessError("sản phẩm không tồn tại")
			}
		} else {
			unit, scale, err := normalizeUnitAndScale(item.Product.Unit, item.Product.QuantityScale)
			if err != nil {
				return nil, 0, err
			}
			product = Product{
				Name:          item.Product.Name,
				Price:         item.Product.Price,
				Cost:          item.Product.Cost,
				Unit:          unit,
				QuantityScale: scale,
				IsActive:      utils.NewTrue(),
			}
			if err := tx.Create(&product).Error; err != nil {
				return nil, 0, err
			}
		}

		storedQty := scaledQuantity(item.Quantity, product.QuantityScale)
		if storedQty <= 0 {
			return nil, 0, utils.NewBusinessError("số lượng bán phải lớn hơn 0")
		}

		// Ad-hoc products carry no stock, so only catalogue lines hit the
		// guarded decrement.
		if !inline {
			res := tx.Model(&Product{}).
				Where("id = ? AND quantity >= ?", product.ID, storedQty).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", storedQty))
			if res.Error != nil {
				return nil, 0, res.Error
			}
			if res.RowsAffected != 1 {
				return nil, 0, utils.NewBusinessError(fmt.Sprintf("sản phẩm %s không đủ tồn kho", product.Name))
			}
		}

		unitPrice := utils.DereferencePtr(item.UnitPrice, product.Price)
		total := LineAmount(storedQty, unitPrice, product.QuantityScale)

		row := InvoiceItem{
			InvoiceId:     invoiceId,
			ProductId:     product.ID,
			ProductName:   product.Name,
			Unit:          product.Unit,
			UnitPrice:     unitPrice,
			Quantity:      storedQty,
			QuantityScale: product.QuantityScale,
			Total:         total,
			AdHoc:         inline,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, 0, err
		}
		rows = append(rows, row)
		subtotal += total
	}
	return rows, subtotal, nil
}

func invoiceTotal(subtotal, discount, tax int64) int64 {
	total := subtotal - discount + tax
	if total < 0 {
		total = 0
	}
	return total
}

// markInvoicePaid transitions an invoice to PAID and records the matching
// income entry in the cash flow ledger. Safe to call on an already paid
// invoice; it does nothing the second time.
func markInvoicePaid(tx *gorm.DB, invoice *Invoice, now time.Time) error {
	if invoice.Status == InvoiceStatusPaid {
		return nil
	}
	if invoice.Status == InvoiceStatusCancelled {
		return utils.NewBusinessError("hóa đơn đã hủy, không thể thu tiền")
	}

	if err := tx.Model(invoice).Updates(map[string]interface{}{
		"status":  InvoiceStatusPaid,
		"paid_at": now,
	}).Error; err != nil {
		return err
	}
	invoice.Status = InvoiceStatusPaid
	invoice.PaidAt = &now

	var existing int64
	if err := tx.Model(&CashFlow{}).Where("invoice_id = ?", invoice.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	entry := CashFlow{
		Type:       CashFlowTypeIncome,
		Amount:     invoice.Total,
		Category:   "Bán hàng",
		Notes:      "Thu tiền hóa đơn " + invoice.Code,
		OccurredAt: now,
		InvoiceId:  &invoice.ID,
	}
	return tx.Create(&entry).Error
}

func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	tx := db.WithContext(ctx).Begin()

	customerId, err := resolveInvoiceCustomer(tx, input)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	code, err := nextDailyCode(tx, codeScopeInvoice, now)
	if err != nil {
		tx.Rollback()
		config.LogError(logger, "models", "CreateInvoice", "mint code", nil, err)
		return nil, err
	}

	invoice := Invoice{
		Code:       code,
		CustomerId: customerId,
		Discount:   input.Discount,
		Tax:        input.Tax,
		Status:     InvoiceStatusDraft,
		Notes:      input.Notes,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	_, subtotal, err := buildInvoiceItems(tx, invoice.ID, input.Items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	invoice.Subtotal = subtotal
	invoice.Total = invoiceTotal(subtotal, input.Discount, input.Tax)
	if err := tx.Model(&invoice).Updates(map[string]interface{}{
		"subtotal": invoice.Subtotal,
		"total":    invoice.Total,
		"status":   InvoiceStatusPending,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	invoice.Status = InvoiceStatusPending

	if input.Paid {
		if err := markInvoicePaid(tx, &invoice, now); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		config.LogError(logger, "models", "CreateInvoice", "commit", nil, err)
		return nil, err
	}
	return GetInvoice(ctx, invoice.ID)
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()
	var result Invoice
	err := db.WithContext(ctx).Preload("Items").Preload("Customer").First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

type InvoiceFilter struct {
	Status     *InvoiceStatus
	CustomerId *int
	From       *time.Time
	To         *time.Time
}

func GetInvoices(ctx context.Context, filter *InvoiceFilter) ([]*Invoice, error) {
	db := config.GetDB()
	var results []*Invoice

	dbCtx := db.WithContext(ctx).Preload("Items").Preload("Customer")
	if filter != nil {
		if filter.Status != nil {
			dbCtx = dbCtx.Where("status = ?", *filter.Status)
		}
		if filter.CustomerId != nil {
			dbCtx = dbCtx.Where("customer_id = ?", *filter.CustomerId)
		}
		if filter.From != nil {
			dbCtx = dbCtx.Where("created_at >= ?", utils.StartOfDay(*filter.From))
		}
		if filter.To != nil {
			dbCtx = dbCtx.Where("created_at <= ?", utils.EndOfDay(*filter.To))
		}
	}
	if err := dbCtx.Order("created_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// restoreInvoiceStock returns every item's quantity to its product. Used when
// an invoice is rewritten or removed.
func restoreInvoiceStock(tx *gorm.DB, items []InvoiceItem) error {
	for _, item := range items {
		if item.AdHoc {
			continue
		}
		err := tx.Model(&Product{}).
			Where("id = ?", item.ProductId).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateInvoice rewrites the invoice's lines and charges from the input,
// reversing the old stock movements and applying the new ones in one
// transaction. A paid invoice keeps its ledger entry in sync with the new
// total; a cancelled invoice cannot be edited.
func UpdateInvoice(ctx context.Context, id int, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	tx := db.WithContext(ctx).Begin()

	var invoice Invoice
	if err := tx.Preload("Items").First(&invoice, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}
	if invoice.Status == InvoiceStatusCancelled {
		tx.Rollback()
		return nil, utils.NewBusinessError("hóa đơn đã hủy, không thể sửa")
	}

	if err := restoreInvoiceStock(tx, invoice.Items); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", id).Delete(&InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// The loaded struct still holds the deleted rows; gorm would save them
	// back as associations on the next update.
	invoice.Items = nil

	if input.CustomerId != nil || input.Customer != nil {
		customerId, err := resolveInvoiceCustomer(tx, input)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		invoice.CustomerId = customerId
	}

	_, subtotal, err := buildInvoiceItems(tx, invoice.ID, input.Items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	invoice.Subtotal = subtotal
	invoice.Discount = input.Discount
	invoice.Tax = input.Tax
	invoice.Total = invoiceTotal(subtotal, input.Discount, input.Tax)
	invoice.Notes = input.Notes
	if err := tx.Model(&invoice).Updates(map[string]interface{}{
		"customer_id": invoice.CustomerId,
		"subtotal":    invoice.Subtotal,
		"discount":    invoice.Discount,
		"tax":         invoice.Tax,
		"total":       invoice.Total,
		"notes":       invoice.Notes,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if invoice.Status == InvoiceStatusPaid {
		err := tx.Model(&CashFlow{}).Where("invoice_id = ?", invoice.ID).Updates(map[string]interface{}{
			"amount": invoice.Total,
			"notes":  "Thu tiền hóa đơn " + invoice.Code,
		}).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	} else if input.Paid {
		if err := markInvoicePaid(tx, &invoice, now); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetInvoice(ctx, id)
}

// PayInvoice settles a pending invoice. Paying twice is a no-op.
func PayInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()

	tx := db.WithContext(ctx).Begin()

	var invoice Invoice
	if err := tx.First(&invoice, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if err := markInvoicePaid(tx, &invoice, time.Now()); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetInvoice(ctx, id)
}

// CancelInvoice marks the invoice CANCELLED without touching stock or the
// ledger; goods already left the shelf and any payment stays on record.
func CancelInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()

	invoice, err := GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == InvoiceStatusCancelled {
		return invoice, nil
	}

	err = db.WithContext(ctx).Model(&Invoice{ID: id}).
		Update("status", InvoiceStatusCancelled).Error
	if err != nil {
		return nil, err
	}
	return GetInvoice(ctx, id)
}

// DeleteInvoice removes the invoice entirely: stock goes back, the linked
// ledger entry and line rows go with it.
func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()

	tx := db.WithContext(ctx).Begin()

	var invoice Invoice
	if err := tx.Preload("Items").Preload("Customer").First(&invoice, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if err := restoreInvoiceStock(tx, invoice.Items); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", id).Delete(&CashFlow{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", id).Delete(&InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(&Invoice{}, id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}
