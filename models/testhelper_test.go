package models

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vshopvn/banhang_backend/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	config.SetDB(db)
	MigrateTable()
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		config.SetDB(nil)
	})
}

func mustCreateProduct(t *testing.T, input *NewProduct) *Product {
	t.Helper()
	product, err := CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateMaterial(t *testing.T, input *NewMaterial) *Material {
	t.Helper()
	material, err := CreateMaterial(context.Background(), input)
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	return material
}

func qty(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
