package models

import (
	"context"
	"testing"

	"github.com/vshopvn/banhang_backend/utils"
)

func TestCashFlowManualEntryLifecycle(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	entry, err := CreateCashFlow(ctx, &NewCashFlow{
		Type:     CashFlowTypeExpense,
		Amount:   500000,
		Category: "Tiền điện",
	})
	if err != nil {
		t.Fatalf("create cashflow: %v", err)
	}

	updated, err := UpdateCashFlow(ctx, entry.ID, &NewCashFlow{
		Type:     CashFlowTypeExpense,
		Amount:   550000,
		Category: "Tiền điện",
		Notes:    "tháng 8",
	})
	if err != nil {
		t.Fatalf("update cashflow: %v", err)
	}
	if updated.Amount != 550000 || updated.Notes != "tháng 8" {
		t.Fatalf("unexpected entry after update %+v", updated)
	}

	if _, err := DeleteCashFlow(ctx, entry.ID); err != nil {
		t.Fatalf("delete cashflow: %v", err)
	}
	if _, err := GetCashFlow(ctx, entry.ID); err != utils.ErrorRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestCashFlowRejectsInvalidInput(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	if _, err := CreateCashFlow(ctx, &NewCashFlow{Type: "TRANSFER", Amount: 1000}); err == nil {
		t.Fatal("expected invalid type error")
	}
	if _, err := CreateCashFlow(ctx, &NewCashFlow{Type: CashFlowTypeIncome, Amount: -5}); err == nil {
		t.Fatal("expected invalid amount error")
	}
}

func TestLinkedCashFlowCannotBeTouchedDirectly(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	product := mustCreateProduct(t, &NewProduct{Name: "Tôn lạnh", Price: 150000, Quantity: 10})
	invoice, err := CreateInvoice(ctx, &NewInvoice{
		Items: []NewInvoiceItem{{ProductId: &product.ID, Quantity: qty(1)}},
		Paid:  true,
	})
	if err != nil {
		t.Fatalf("create paid invoice: %v", err)
	}

	entries, err := GetCashFlows(ctx, nil)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d (%v)", len(entries), err)
	}
	linked := entries[0]
	if linked.InvoiceId == nil || *linked.InvoiceId != invoice.ID {
		t.Fatalf("expected entry linked to invoice %d, got %+v", invoice.ID, linked)
	}

	if _, err := DeleteCashFlow(ctx, linked.ID); !utils.IsBusinessError(err) {
		t.Fatalf("expected business error on delete, got %v", err)
	}
	if _, err := UpdateCashFlow(ctx, linked.ID, &NewCashFlow{
		Type: CashFlowTypeIncome, Amount: 1,
	}); !utils.IsBusinessError(err) {
		t.Fatalf("expected business error on update, got %v", err)
	}
}

func TestGetCashFlowsFiltersByType(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	if _, err := CreateCashFlow(ctx, &NewCashFlow{Type: CashFlowTypeIncome, Amount: 100000}); err != nil {
		t.Fatalf("create income: %v", err)
	}
	if _, err := CreateCashFlow(ctx, &NewCashFlow{Type: CashFlowTypeExpense, Amount: 40000}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	income := CashFlowTypeIncome
	entries, err := GetCashFlows(ctx, &CashFlowFilter{Type: &income})
	if err != nil {
		t.Fatalf("list cashflows: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != CashFlowTypeIncome {
		t.Fatalf("expected one income entry, got %+v", entries)
	}
}
