package models

import (
	"context"
	"time"

	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/utils"
)

// CashFlow is one ledger entry. Entries created from an invoice or a purchase
// carry the owning document's id and can only be removed through it.
type CashFlow struct {
	ID         int          `gorm:"primary_key" json:"id"`
	Type       CashFlowType `gorm:"size:10;not null" json:"type"`
	Amount     int64        `gorm:"not null" json:"amountCents"`
	Category   string       `gorm:"size:100" json:"category"`
	Notes      string       `gorm:"type:text" json:"notes"`
	OccurredAt time.Time    `gorm:"not null;index" json:"occurredAt"`
	InvoiceId  *int         `gorm:"index" json:"invoiceId"`
	PurchaseId *int         `gorm:"index" json:"purchaseId"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

type NewCashFlow struct {
	Type       CashFlowType `json:"type" binding:"required"`
	Amount     int64        `json:"amountCents" binding:"required"`
	Category   string       `json:"category"`
	Notes      string       `json:"notes"`
	OccurredAt *time.Time   `json:"occurredAt"`
}

func (input *NewCashFlow) validate() error {
	if !input.Type.IsValid() {
		return utils.NewBusinessError("loại phiếu thu chi không hợp lệ")
	}
	if input.Amount <= 0 {
		return utils.NewBusinessError("số tiền phải lớn hơn 0")
	}
	return nil
}

func CreateCashFlow(ctx context.Context, input *NewCashFlow) (*CashFlow, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}

	occurredAt := time.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	entry := CashFlow{
		Type:       input.Type,
		Amount:     input.Amount,
		Category:   input.Category,
		Notes:      input.Notes,
		OccurredAt: occurredAt,
	}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func GetCashFlow(ctx context.Context, id int) (*CashFlow, error) {
	db := config.GetDB()
	var result CashFlow
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

type CashFlowFilter struct {
	Type *CashFlowType
	From *time.Time
	To   *time.Time
}

func GetCashFlows(ctx context.Context, filter *CashFlowFilter) ([]*CashFlow, error) {
	db := config.GetDB()
	var results []*CashFlow

	dbCtx := db.WithContext(ctx)
	if filter != nil {
		if filter.Type != nil {
			dbCtx = dbCtx.Where("type = ?", *filter.Type)
		}
		if filter.From != nil {
			dbCtx = dbCtx.Where("occurred_at >= ?", utils.StartOfDay(*filter.From))
		}
		if filter.To != nil {
			dbCtx = dbCtx.Where("occurred_at <= ?", utils.EndOfDay(*filter.To))
		}
	}
	if err := dbCtx.Order("occurred_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateCashFlow edits a manual entry. Document-linked entries follow their
// invoice or purchase and cannot be edited here.
func UpdateCashFlow(ctx context.Context, id int, input *NewCashFlow) (*CashFlow, error) {
	db := config.GetDB()

	entry, err := GetCashFlow(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.InvoiceId != nil || entry.PurchaseId != nil {
		return nil, utils.NewBusinessError("phiếu thu chi gắn với chứng từ, không thể sửa trực tiếp")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"type":     input.Type,
		"amount":   input.Amount,
		"category": input.Category,
		"notes":    input.Notes,
	}
	if input.OccurredAt != nil {
		updates["occurred_at"] = *input.OccurredAt
	}
	if err := db.WithContext(ctx).Model(entry).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetCashFlow(ctx, id)
}

func DeleteCashFlow(ctx context.Context, id int) (*CashFlow, error) {
	db := config.GetDB()

	entry, err := GetCashFlow(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.InvoiceId != nil {
		return nil, utils.NewBusinessError("phiếu thu gắn với hóa đơn, hãy xóa hóa đơn thay vì xóa phiếu")
	}
	if entry.PurchaseId != nil {
		return nil, utils.NewBusinessError("phiếu chi gắn với phiếu nhập, hãy xóa phiếu nhập thay vì xóa phiếu")
	}

	if err := db.WithContext(ctx).Delete(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}
