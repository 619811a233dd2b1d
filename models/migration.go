package models

import (
	"log"

	"github.com/vshopvn/banhang_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Product{}, &Material{},
		&Customer{},
		&Invoice{}, &InvoiceItem{}, &DailyCodeCounter{},
		&Purchase{}, &PurchaseItem{},
		&CashFlow{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
