package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntryItemRequest línea de un ingreso de proveedor.
type StockEntryItemRequest struct {
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UpdatePrice bool            `json:"update_price,omitempty"`
}

// CreateStockEntryRequest body para POST /api/stock-entries.
type CreateStockEntryRequest struct {
	BranchID     string                  `json:"branch_id,omitempty"`
	SupplierName string                  `json:"supplier_name,omitempty"`
	InvoiceRef   string                  `json:"invoice_ref,omitempty"`
	Items        []StockEntryItemRequest `json:"items"`
}

// StockEntryItemResponse línea persistida.
type StockEntryItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UpdatePrice bool            `json:"update_price"`
}

// StockEntryResponse ingreso expuesto por la API.
type StockEntryResponse struct {
	ID           string                   `json:"id"`
	BranchID     string                   `json:"branch_id"`
	SupplierName string                   `json:"supplier_name,omitempty"`
	InvoiceRef   string                   `json:"invoice_ref,omitempty"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	CreatedBy    string                   `json:"created_by"`
	CreatedAt    time.Time                `json:"created_at"`
	Items        []StockEntryItemResponse `json:"items"`
}

// StockEntryListResponse listado paginado de ingresos.
type StockEntryListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
