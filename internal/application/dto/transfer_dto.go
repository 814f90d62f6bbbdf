package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferItemRequest línea solicitada al crear un traslado.
type TransferItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	TargetBranchID string                `json:"target_branch_id"`
	Items          []TransferItemRequest `json:"items"`
	Note           string                `json:"note,omitempty"`
}

// EmitItemRequest ajuste opcional de la cantidad despachada de una línea.
// Si QuantitySent difiere de lo solicitado, Justification es obligatoria.
type EmitItemRequest struct {
	ItemID        string           `json:"item_id,omitempty"`
	ProductID     string           `json:"product_id,omitempty"`
	QuantitySent  *decimal.Decimal `json:"quantity_sent,omitempty"`
	Justification string           `json:"justification,omitempty"`
}

// EmitTransferRequest body para POST /api/transfers/:id/emit.
type EmitTransferRequest struct {
	Items []EmitItemRequest `json:"items,omitempty"`
}

// ReceiveItemRequest cantidad recibida de una línea (por item_id o product_id).
type ReceiveItemRequest struct {
	ItemID           string          `json:"item_id,omitempty"`
	ProductID        string          `json:"product_id,omitempty"`
	QuantityReceived *decimal.Decimal `json:"quantity_received"`
	Justification    string          `json:"justification,omitempty"`
	PhotoURL         string          `json:"photo_url,omitempty"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
type ReceiveTransferRequest struct {
	Items []ReceiveItemRequest `json:"items"`
}

// CancelTransferRequest body para POST /api/transfers/:id/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ListTransfersRequest filtros de GET /api/transfers.
type ListTransfersRequest struct {
	Direction string `query:"direction"`
	Status    string `query:"status"`
	From      string `query:"from"` // YYYY-MM-DD o RFC3339
	To        string `query:"to"`
	PageRequest
}

// TransferItemResponse línea del vale.
type TransferItemResponse struct {
	ID                     string           `json:"id"`
	ProductID              string           `json:"product_id"`
	QuantityRequested      decimal.Decimal  `json:"quantity_requested"`
	QuantitySent           decimal.Decimal  `json:"quantity_sent"`
	QuantityReceived       *decimal.Decimal `json:"quantity_received,omitempty"`
	ShipmentJustification  string           `json:"shipment_justification,omitempty"`
	ReceptionJustification string           `json:"reception_justification,omitempty"`
	ReceptionPhotoURL      string           `json:"reception_photo_url,omitempty"`
}

// StockWarningDTO producto que quedó con stock negativo al despachar (política allow).
type StockWarningDTO struct {
	ProductID string          `json:"product_id"`
	Available decimal.Decimal `json:"available"`
	Sent      decimal.Decimal `json:"sent"`
}

// TransferResponse vale de traslado expuesto por la API.
type TransferResponse struct {
	ID             string                 `json:"id"`
	Number         int64                  `json:"number"`
	SourceBranchID string                 `json:"source_branch_id"`
	TargetBranchID string                 `json:"target_branch_id"`
	Status         string                 `json:"status"`
	Note           string                 `json:"note,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	CreatedBy      string                 `json:"created_by"`
	ShippedBy      string                 `json:"shipped_by,omitempty"`
	ReceivedBy     string                 `json:"received_by,omitempty"`
	CancelledBy    string                 `json:"cancelled_by,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	ShippedAt      *time.Time             `json:"shipped_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	Items          []TransferItemResponse `json:"items"`
	StockWarnings  []StockWarningDTO      `json:"stock_warnings,omitempty"`
}

// TransferListResponse listado paginado de vales.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PhotoUploadResponse URL de la evidencia subida.
type PhotoUploadResponse struct {
	URL string `json:"url"`
}
