package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTransferOut    = "TRANSFER_OUT"    // despacho de traslado (origen)
	MovementTransferIn     = "TRANSFER_IN"     // recepción de traslado (destino)
	MovementTransferReturn = "TRANSFER_RETURN" // cancelación en tránsito (vuelve al origen)
	MovementEntry          = "ENTRY"           // ingreso de proveedor
)

// InventoryMovement registro de auditoría de cada cambio de stock.
// TransactionID referencia el vale de traslado o el ingreso que lo originó.
type InventoryMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	BranchID      string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     string
}
