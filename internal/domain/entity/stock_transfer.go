package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del vale de traslado.
const (
	TransferPending   = "PENDIENTE"
	TransferInTransit = "EN_TRANSITO"
	TransferCompleted = "COMPLETADO"
	TransferCancelled = "CANCELADO"
)

// StockTransfer vale de traslado físico de mercadería entre dos sucursales.
// El stock solo cambia al despachar (origen), recibir (destino) o cancelar en tránsito (origen).
type StockTransfer struct {
	ID             string
	Number         int64
	SourceBranchID string
	TargetBranchID string
	Status         string
	Note           string
	CancelReason   string
	CreatedBy      string
	ShippedBy      string
	ReceivedBy     string
	CancelledBy    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ShippedAt      *time.Time
	ReceivedAt     *time.Time
	CancelledAt    *time.Time
	Items          []StockTransferItem
}

// StockTransferItem línea del vale. QuantityReceived es nil hasta la recepción.
type StockTransferItem struct {
	ID                     string
	TransferID             string
	ProductID              string
	QuantityRequested      decimal.Decimal
	QuantitySent           decimal.Decimal
	QuantityReceived       *decimal.Decimal
	ShipmentJustification  string
	ReceptionJustification string
	ReceptionPhotoURL      string
}

// HasDiscrepancy informa si lo recibido difiere de lo enviado.
func (i *StockTransferItem) HasDiscrepancy() bool {
	return i.QuantityReceived != nil && !i.QuantityReceived.Equal(i.QuantitySent)
}

// Item busca una línea por ID.
func (t *StockTransfer) Item(id string) *StockTransferItem {
	for i := range t.Items {
		if t.Items[i].ID == id {
			return &t.Items[i]
		}
	}
	return nil
}
