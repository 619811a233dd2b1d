package models

type ProductUnit string

const (
	ProductUnitPcs ProductUnit = "PCS"
	ProductUnitM2  ProductUnit = "M2"
)

func (u ProductUnit) IsValid() bool {
	switch u {
	case ProductUnitPcs, ProductUnitM2:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPaid, InvoiceStatusPending, InvoiceStatusCancelled:
		return true
	}
	return false
}

type PurchaseStatus string

const (
	PurchaseStatusReceived  PurchaseStatus = "RECEIVED"
	PurchaseStatusCancelled PurchaseStatus = "CANCELLED"
)

type CashFlowType string

const (
	CashFlowTypeIncome  CashFlowType = "INCOME"
	CashFlowTypeExpense CashFlowType = "EXPENSE"
)

func (t CashFlowType) IsValid() bool {
	switch t {
	case CashFlowTypeIncome, CashFlowTypeExpense:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleUser:
		return true
	}
	return false
}
