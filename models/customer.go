package models

import (
	"context"
	"strings"
	"time"

	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/utils"
)

const walkInCustomerName = "Khách lẻ"

type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Email     string    `gorm:"size:100" json:"email"`
	Address   string    `gorm:"size:255" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type NewCustomer struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (input *NewCustomer) validate() error {
	if strings.TrimSpace(input.Name) == "" {
		return utils.NewBusinessError("tên khách hàng là bắt buộc")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewBusinessError("địa chỉ email không hợp lệ")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewBusinessError("số điện thoại không hợp lệ")
		}
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}

	customer := Customer{
		Name:    strings.TrimSpace(input.Name),
		Phone:   input.Phone,
		Email:   strings.ToLower(input.Email),
		Address: input.Address,
		Notes:   input.Notes,
	}
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	db := config.GetDB()
	var result Customer
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetCustomers(ctx context.Context, name *string) ([]*Customer, error) {
	db := config.GetDB()
	var results []*Customer

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()

	customer, err := GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(customer).Updates(map[string]interface{}{
		"name":    strings.TrimSpace(input.Name),
		"phone":   input.Phone,
		"email":   strings.ToLower(input.Email),
		"address": input.Address,
		"notes":   input.Notes,
	}).Error; err != nil {
		return nil, err
	}
	return GetCustomer(ctx, id)
}

func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {
	db := config.GetDB()

	customer, err := GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Invoice{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessError("khách hàng đã có hóa đơn, không thể xóa")
	}

	if err := db.WithContext(ctx).Delete(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}
