package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry ingreso directo de mercadería desde un proveedor externo. Sin flujo de aprobación.
type StockEntry struct {
	ID           string
	BranchID     string
	SupplierName string
	InvoiceRef   string
	TotalAmount  decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
	Items        []StockEntryItem
}

// StockEntryItem línea del ingreso. UpdatePrice reemplaza el precio base por UnitCost.
type StockEntryItem struct {
	ID          string
	EntryID     string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	UpdatePrice bool
}
