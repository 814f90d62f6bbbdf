package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
	PaymentMixed    = "MIXED"
)

// Sale es una venta creada por el punto de venta. Inmutable para este servicio.
// Total ya incluye descuento y ajuste por redondeo de efectivo.
type Sale struct {
	ID            string
	BranchID      string
	Total         decimal.Decimal
	Discount      decimal.Decimal
	Adjustment    decimal.Decimal
	PaymentMethod string
	Payments      []PaymentDetail // vacío cuando se pagó con un solo medio
	Items         []SaleItem
	CreatedAt     time.Time
}

// PaymentDetail parte de un pago dividido entre varios medios.
type PaymentDetail struct {
	Method string
	Amount decimal.Decimal
}

// SaleItem línea de venta. OwnerBranchID es la sucursal dueña del producto al momento de leer
// (vacío = producto global); lo completa el repositorio con un join al catálogo.
type SaleItem struct {
	ProductID     string
	OwnerBranchID string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	LineDiscount  decimal.Decimal
	Subtotal      decimal.Decimal
}

// HasSplitPayment informa si la venta tiene detalle de pago dividido.
func (s *Sale) HasSplitPayment() bool {
	return len(s.Payments) > 0
}
