package models

import (
	"context"
	"strings"
	"time"

	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/utils"
)

// Material is input stock consumed by purchases. Same storage shape as Product.
type Material struct {
	ID            int         `gorm:"primary_key" json:"id"`
	Name          string      `gorm:"size:255;not null" json:"name" binding:"required"`
	Sku           *string     `gorm:"size:100;uniqueIndex" json:"sku"`
	Price         int64       `gorm:"not null;default:0" json:"priceCents"`
	Cost          int64       `gorm:"not null;default:0" json:"costCents"`
	Quantity      int64       `gorm:"not null;default:0" json:"quantity"`
	Unit          ProductUnit `gorm:"size:10;default:'PCS'" json:"unit"`
	QuantityScale int64       `gorm:"not null;default:1" json:"quantityScale"`
	IsActive      *bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

type NewMaterial struct {
	Name          string      `json:"name" binding:"required"`
	Sku           string      `json:"sku"`
	Price         int64       `json:"priceCents"`
	Cost          int64       `json:"costCents"`
	Quantity      int64       `json:"quantity"`
	Unit          ProductUnit `json:"unit"`
	QuantityScale int64       `json:"quantityScale"`
	IsActive      *bool       `json:"isActive"`
}

func CreateMaterial(ctx context.Context, input *NewMaterial) (*Material, error) {
	db := config.GetDB()

	unit, scale, err := normalizeUnitAndScale(input.Unit, input.QuantityScale)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 0 {
		return nil, utils.NewBusinessError("số lượng tồn kho không được âm")
	}

	if input.Sku != "" {
		var count int64
		if err := db.WithContext(ctx).Model(&Material{}).Where("sku = ?", input.Sku).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewBusinessError("mã SKU đã tồn tại")
		}
	}

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	material := Material{
		Name:          strings.TrimSpace(input.Name),
		Sku:           utils.NilIfEmpty(input.Sku),
		Price:         input.Price,
		Cost:          input.Cost,
		Quantity:      input.Quantity,
		Unit:          unit,
		QuantityScale: scale,
		IsActive:      isActive,
	}
	if err := db.WithContext(ctx).Create(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func GetMaterial(ctx context.Context, id int) (*Material, error) {
	db := config.GetDB()
	var result Material
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetMaterials(ctx context.Context, name *string) ([]*Material, error) {
	db := config.GetDB()
	var results []*Material

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateMaterial(ctx context.Context, id int, input *NewMaterial) (*Material, error) {
	db := config.GetDB()

	material, err := GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	unit, scale, err := normalizeUnitAndScale(input.Unit, input.QuantityScale)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 0 {
		return nil, utils.NewBusinessError("số lượng tồn kho không được âm")
	}

	updates := map[string]interface{}{
		"name":           strings.TrimSpace(input.Name),
		"sku":            utils.NilIfEmpty(input.Sku),
		"price":          input.Price,
		"cost":           input.Cost,
		"quantity":       input.Quantity,
		"unit":           unit,
		"quantity_scale": scale,
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := db.WithContext(ctx).Model(material).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetMaterial(ctx, id)
}

func DeleteMaterial(ctx context.Context, id int) (*Material, error) {
	db := config.GetDB()

	material, err := GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&PurchaseItem{}).Where("material_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessError("nguyên liệu đã có trong phiếu nhập, hãy ngừng sử dụng thay vì xóa")
	}

	if err := db.WithContext(ctx).Delete(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}
