package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo compartido.
// OwnerBranchID vacío = producto global (no genera deuda entre sucursales).
// La propiedad, no la ubicación física, define a quién se le debe el dinero de una venta.
type Product struct {
	ID            string
	OwnerBranchID string
	SKU           string
	Name          string
	Price         decimal.Decimal // precio base de venta
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
