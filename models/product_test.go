package models

import (
	"context"
	"testing"

	"github.com/vshopvn/banhang_backend/utils"
)

func TestProductSkuMustBeUnique(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateProduct(t, &NewProduct{Name: "Gạch 30x30", Sku: "G3030", Price: 90000})

	if _, err := CreateProduct(ctx, &NewProduct{Name: "Gạch khác", Sku: "G3030"}); !utils.IsBusinessError(err) {
		t.Fatalf("expected duplicate sku error, got %v", err)
	}
}

func TestProductUnitNormalization(t *testing.T) {
	setupTestDB(t)

	// PCS products ignore any scale they were given.
	pcs := mustCreateProduct(t, &NewProduct{Name: "Bóng đèn", QuantityScale: 100})
	if pcs.Unit != ProductUnitPcs || pcs.QuantityScale != 1 {
		t.Fatalf("expected PCS with scale 1, got %s scale %d", pcs.Unit, pcs.QuantityScale)
	}

	m2 := mustCreateProduct(t, &NewProduct{Name: "Gạch lát", Unit: ProductUnitM2})
	if m2.QuantityScale != 1 {
		t.Fatalf("expected default scale 1, got %d", m2.QuantityScale)
	}

	if _, err := CreateProduct(context.Background(), &NewProduct{Name: "X", Unit: "KG"}); !utils.IsBusinessError(err) {
		t.Fatalf("expected invalid unit error, got %v", err)
	}
}

func TestProductNegativeStockRejected(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	if _, err := CreateProduct(ctx, &NewProduct{Name: "X", Quantity: -1}); !utils.IsBusinessError(err) {
		t.Fatalf("expected negative stock error, got %v", err)
	}
}

func TestDeleteProductBlockedWhenSold(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	product := mustCreateProduct(t, &NewProduct{Name: "Gạch men cao cấp", Price: 100000, Quantity: 10})
	if _, err := CreateInvoice(ctx, &NewInvoice{
		Items: []NewInvoiceItem{{ProductId: &product.ID, Quantity: qty(1)}},
	}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if _, err := DeleteProduct(ctx, product.ID); !utils.IsBusinessError(err) {
		t.Fatalf("expected delete to be blocked, got %v", err)
	}

	fresh := mustCreateProduct(t, &NewProduct{Name: "Hàng chưa bán"})
	if _, err := DeleteProduct(ctx, fresh.ID); err != nil {
		t.Fatalf("delete unsold product: %v", err)
	}
}

func TestGetProductsFiltersByName(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	mustCreateProduct(t, &NewProduct{Name: "Gạch men trắng"})
	mustCreateProduct(t, &NewProduct{Name: "Sơn chống thấm"})

	name := "Gạch"
	results, err := GetProducts(ctx, &name)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Gạch men trắng" {
		t.Fatalf("unexpected results %+v", results)
	}
}
