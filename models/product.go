package models

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/utils"
)

// Product is sellable stock. Quantity is stored in whole units: for PCS products
// one unit per piece, for M2 products the area multiplied by QuantityScale and
// rounded, so fractional areas survive integer storage.
type Product struct {
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

type NewProduct struct {
	Name          string      `json:"name" binding:"required"`
	Sku           string      `json:"sku"`
	Price         int64       `json:"priceCents"`
	Cost          int64       `json:"costCents"`
	Quantity      int64       `json:"quantity"`
	Unit          ProductUnit `json:"unit"`
	QuantityScale int64       `json:"quantityScale"`
	IsActive      *bool       `json:"isActive"`
}

func normalizeUnitAndScale(unit ProductUnit, scale int64) (ProductUnit, int64, error) {
	if unit == "" {
		unit = ProductUnitPcs
	}
	if !unit.IsValid() {
		return "", 0, utils.NewBusinessError("đơn vị tính không hợp lệ")
	}
	if scale <= 0 {
		scale = 1
	}
	if unit == ProductUnitPcs {
		scale = 1
	}
	return unit, scale, nil
}

// scaledQuantity converts a requested quantity (pieces, or m² area for M2
// units) into stored whole units, rounding to the nearest unit.
func scaledQuantity(qty decimal.Decimal, scale int64) int64 {
	return qty.Mul(decimal.NewFromInt(scale)).Round(0).IntPart()
}

// LineAmount computes a money total for storedQty units priced per piece/m².
func LineAmount(storedQty int64, unitAmount int64, scale int64) int64 {
	return decimal.NewFromInt(storedQty).
		Mul(decimal.NewFromInt(unitAmount)).
		Div(decimal.NewFromInt(scale)).
		Round(0).
		IntPart()
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
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
		if err := db.WithContext(ctx).Model(&Product{}).Where("sku = ?", input.Sku).Count(&count).Error; err != nil {
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

	product := Product{
		Name:          strings.TrimSpace(input.Name),
		Sku:           utils.NilIfEmpty(input.Sku),
		Price:         input.Price,
		Cost:          input.Cost,
		Quantity:      input.Quantity,
		Unit:          unit,
		QuantityScale: scale,
		IsActive:      isActive,
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	db := config.GetDB()
	var result Product
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetProducts(ctx context.Context, name *string) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	product, err := GetProduct(ctx, id)
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

	if input.Sku != "" {
		var count int64
		if err := db.WithContext(ctx).Model(&Product{}).
			Where("sku = ? AND NOT id = ?", input.Sku, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewBusinessError("mã SKU đã tồn tại")
		}
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
	if err := db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetProduct(ctx, id)
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	db := config.GetDB()

	product, err := GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Referenced products keep invoice history readable; deactivate instead.
	var count int64
	if err := db.WithContext(ctx).Model(&InvoiceItem{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessError("sản phẩm đã có trong hóa đơn, hãy ngừng kinh doanh thay vì xóa")
	}

	if err := db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}
